package shared

import (
	"context"
	"time"

	"reservation-engine/internal/domain/booking"

	"github.com/google/uuid"
)

// PaymentStatusDeriver maps the paid quantity of a new booking to its payment status.
type PaymentStatusDeriver interface {
	Derive(paidQuantity int) booking.PaymentStatus
}

type PaymentStatusFunc func(paidQuantity int) booking.PaymentStatus

func (f PaymentStatusFunc) Derive(paidQuantity int) booking.PaymentStatus {
	return f(paidQuantity)
}

func DefaultPaymentStatusDeriver() PaymentStatusDeriver {
	return PaymentStatusFunc(booking.DerivePaymentStatus)
}

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking transaction commits.
type BookingEvent struct {
	Type                   string     `json:"type"`
	BookingID              uuid.UUID  `json:"booking_id"`
	TenantID               uuid.UUID  `json:"tenant_id"`
	SlotID                 uuid.UUID  `json:"slot_id"`
	VisitorCount           int        `json:"visitor_count"`
	PackageSubscriptionID  *uuid.UUID `json:"package_subscription_id,omitempty"`
	PackageCoveredQuantity int        `json:"package_covered_quantity"`
	PaidQuantity           int        `json:"paid_quantity"`
	Status                 string     `json:"status"`
	PaymentStatus          string     `json:"payment_status"`
	OccurredAt             time.Time  `json:"occurred_at"`
}

func NewBookingEvent(eventType string, b *booking.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:                   eventType,
		BookingID:              b.ID(),
		TenantID:               b.TenantID(),
		SlotID:                 b.SlotID(),
		VisitorCount:           b.VisitorCount(),
		PackageSubscriptionID:  b.PackageSubscriptionID(),
		PackageCoveredQuantity: b.PackageCoveredQuantity(),
		PaidQuantity:           b.PaidQuantity(),
		Status:                 b.Status().String(),
		PaymentStatus:          b.PaymentStatus().String(),
		OccurredAt:             at,
	}
}

// Dispatcher hands committed booking events to notification/invoicing
// collaborators. Failures never affect the booking.
type Dispatcher interface {
	Dispatch(ctx context.Context, event BookingEvent) error
}
