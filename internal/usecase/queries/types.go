package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID                     uuid.UUID        `json:"id"`
	TenantID               uuid.UUID        `json:"tenant_id"`
	SlotID                 uuid.UUID        `json:"slot_id"`
	VisitorCount           int              `json:"visitor_count"`
	PackageSubscriptionID  *uuid.UUID       `json:"package_subscription_id,omitempty"`
	PackageCoveredQuantity int              `json:"package_covered_quantity"`
	PaidQuantity           int              `json:"paid_quantity"`
	Status                 string           `json:"status"`
	PaymentStatus          string           `json:"payment_status"`
	Policy                 *string          `json:"policy,omitempty"`
	CustomerName           string           `json:"customer_name"`
	CustomerPhone          string           `json:"customer_phone,omitempty"`
	CustomerEmail          string           `json:"customer_email,omitempty"`
	Allocations            []AllocationView `json:"allocations"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
}

type AllocationView struct {
	SlotID   uuid.UUID `json:"slot_id"`
	Quantity int       `json:"quantity"`
}

type SlotView struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	ServiceID         uuid.UUID  `json:"service_id"`
	EmployeeID        *uuid.UUID `json:"employee_id,omitempty"`
	Date              time.Time  `json:"date"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	OriginalCapacity  int        `json:"original_capacity"`
	AvailableCapacity int        `json:"available_capacity"`
	BookedCount       int        `json:"booked_count"`
	// LockedCapacity is held by live checkout locks; BookableCapacity is what a
	// new lock could still take.
	LockedCapacity   int  `json:"locked_capacity"`
	BookableCapacity int  `json:"bookable_capacity"`
	IsAvailable      bool `json:"is_available"`
}

type CoverageView struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	ServiceID      uuid.UUID `json:"service_id"`
	Requested      int       `json:"requested"`
	Covered        int       `json:"covered"`
	Uncovered      int       `json:"uncovered"`
	Remaining      int       `json:"remaining"`
}
