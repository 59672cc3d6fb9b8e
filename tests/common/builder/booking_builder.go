//go:build unit || e2e

package builder

import (
	"time"

	"reservation-engine/internal/domain/booking"
	reqdto "reservation-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	TenantID       uuid.UUID
	SlotID         uuid.UUID
	LockID         uuid.UUID
	SubscriptionID *uuid.UUID
	Visitors       int
	Covered        int
	CustomerName   string
	CustomerEmail  string
	CreatedAt      time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		TenantID:      uuid.New(),
		SlotID:        uuid.New(),
		LockID:        uuid.New(),
		Visitors:      2,
		CustomerName:  "Alex Doe",
		CustomerEmail: "alex@example.com",
		CreatedAt:     DefaultStart.Add(-24 * time.Hour),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// WithoutLock builds a request that books without a checkout lock.
func (b *BookingBuilder) WithoutLock() *BookingBuilder {
	b.LockID = uuid.Nil
	return b
}

func (b *BookingBuilder) WithPackage(subscriptionID uuid.UUID, covered int) *BookingBuilder {
	b.SubscriptionID = &subscriptionID
	b.Covered = covered
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	split, err := booking.NewSplit(b.Visitors, b.Covered)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(booking.NewBookingParams{
		TenantID:              b.TenantID,
		PackageSubscriptionID: b.SubscriptionID,
		Split:                 split,
		Customer:              booking.Customer{Name: b.CustomerName, Email: b.CustomerEmail},
		Allocations:           []booking.Allocation{{SlotID: b.SlotID, Quantity: b.Visitors}},
	}, b.CreatedAt)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	req := reqdto.CreateBookingRequest{
		SlotID:                b.SlotID,
		VisitorCount:          b.Visitors,
		PackageSubscriptionID: b.SubscriptionID,
		Customer: reqdto.CustomerRequest{
			Name:  b.CustomerName,
			Email: b.CustomerEmail,
		},
	}
	if b.LockID != uuid.Nil {
		lockID := b.LockID
		req.LockID = &lockID
	}
	if b.SubscriptionID != nil {
		covered := b.Covered
		req.ExpectedCoveredQuantity = &covered
	}
	return req
}
