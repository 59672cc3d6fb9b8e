package response

import (
	"time"

	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                     uuid.UUID            `json:"id"`
	TenantID               uuid.UUID            `json:"tenant_id"`
	SlotID                 uuid.UUID            `json:"slot_id"`
	VisitorCount           int                  `json:"visitor_count"`
	PackageSubscriptionID  *uuid.UUID           `json:"package_subscription_id,omitempty"`
	PackageCoveredQuantity int                  `json:"package_covered_quantity"`
	PaidQuantity           int                  `json:"paid_quantity"`
	Status                 string               `json:"status"`
	PaymentStatus          string               `json:"payment_status"`
	Policy                 *string              `json:"allocation_policy,omitempty"`
	CustomerName           string               `json:"customer_name"`
	CustomerPhone          string               `json:"customer_phone,omitempty"`
	CustomerEmail          string               `json:"customer_email,omitempty"`
	Allocations            []AllocationResponse `json:"allocations"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
}

type AllocationResponse struct {
	SlotID   uuid.UUID `json:"slot_id"`
	Quantity int       `json:"quantity"`
}

type CancelBookingResponse struct {
	BookingResponse
	AlreadyCancelled bool `json:"already_cancelled"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var res BookingResponse
	if err := copier.CopyWithOption(&res, v, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	if res.Allocations == nil {
		res.Allocations = []AllocationResponse{}
	}
	return &res, nil
}
