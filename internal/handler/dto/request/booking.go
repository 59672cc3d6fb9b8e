package request

import (
	"strings"

	"reservation-engine/internal/domain/allocation"
	"reservation-engine/internal/domain/booking"
	"reservation-engine/internal/pkg/jwt"
	"reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	// LockID is omitted for walk-in bookings made without a checkout hold.
	LockID       *uuid.UUID `json:"lock_id,omitempty"`
	SlotID       uuid.UUID  `json:"slot_id" binding:"required"`
	VisitorCount int        `json:"visitor_count" binding:"required"`

	PackageSubscriptionID   *uuid.UUID `json:"package_subscription_id,omitempty"`
	ExpectedCoveredQuantity *int       `json:"expected_covered_quantity,omitempty"`
	// AllocationPolicy switches to employee allocation: "parallel" or "consecutive".
	AllocationPolicy *string `json:"allocation_policy,omitempty"`

	Customer CustomerRequest `json:"customer"`
}

type CustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// ToParams binds the request to the caller's checkout session.
func (r CreateBookingRequest) ToParams(session *jwt.Claims) commands.CreateBookingParams {
	p := commands.CreateBookingParams{
		TenantID:                session.TenantID,
		SessionID:               session.SessionID,
		LockID:                  r.LockID,
		SlotID:                  r.SlotID,
		VisitorCount:            r.VisitorCount,
		PackageSubscriptionID:   r.PackageSubscriptionID,
		ExpectedCoveredQuantity: r.ExpectedCoveredQuantity,
		Customer: commands.CustomerParams{
			Name:  strings.TrimSpace(r.Customer.Name),
			Phone: strings.TrimSpace(r.Customer.Phone),
			Email: strings.TrimSpace(r.Customer.Email),
		},
	}
	if r.AllocationPolicy != nil {
		// Unknown policies are rejected by the command's validation.
		p.Employee = &commands.EmployeeAllocation{
			Policy: allocation.Policy(strings.ToLower(strings.TrimSpace(*r.AllocationPolicy))),
		}
	}
	return p
}

type TransitionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (r TransitionStatusRequest) ToParams(bookingID uuid.UUID) commands.TransitionStatusParams {
	return commands.TransitionStatusParams{
		BookingID: bookingID,
		Status:    booking.Status(strings.ToLower(strings.TrimSpace(r.Status))),
	}
}
