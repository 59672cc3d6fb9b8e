//go:build unit

package booking_test

import (
	"testing"
	"time"

	"reservation-engine/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)

func newBooking(t *testing.T, visitors, covered int) *booking.Booking {
	t.Helper()
	split, err := booking.NewSplit(visitors, covered)
	require.NoError(t, err)

	var sub *uuid.UUID
	if covered > 0 {
		id := uuid.New()
		sub = &id
	}

	b, err := booking.NewBooking(booking.NewBookingParams{
		TenantID:              uuid.New(),
		PackageSubscriptionID: sub,
		Split:                 split,
		Customer:              booking.Customer{Name: "  Aiko ", Email: " Aiko@Example.com "},
		Allocations:           []booking.Allocation{{SlotID: uuid.New(), Quantity: visitors}},
	}, now)
	require.NoError(t, err)
	return b
}

func TestNewSplit(t *testing.T) {
	testCases := []struct {
		name     string
		visitors int
		covered  int
		paid     int
		errIs    error
	}{
		{name: "no package", visitors: 3, covered: 0, paid: 3},
		{name: "partially covered", visitors: 3, covered: 2, paid: 1},
		{name: "fully covered", visitors: 2, covered: 2, paid: 0},
		{name: "zero visitors", visitors: 0, errIs: booking.ErrInvalidVisitorCount},
		{name: "covered exceeds visitors", visitors: 1, covered: 2, errIs: booking.ErrInvalidSplit},
		{name: "negative covered", visitors: 1, covered: -1, errIs: booking.ErrInvalidSplit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			split, err := booking.NewSplit(tc.visitors, tc.covered)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.covered, split.Covered)
			assert.Equal(t, tc.paid, split.Paid)
			assert.Equal(t, tc.visitors, split.Total())
		})
	}
}

func TestNewBooking(t *testing.T) {
	t.Run("money owed starts pending", func(t *testing.T) {
		b := newBooking(t, 3, 2)

		assert.Equal(t, booking.StatusPending, b.Status())
		assert.Equal(t, booking.PaymentPending, b.PaymentStatus())
		assert.Equal(t, 2, b.PackageCoveredQuantity())
		assert.Equal(t, 1, b.PaidQuantity())
		assert.Equal(t, b.Allocations()[0].SlotID, b.SlotID())
		assert.Equal(t, "Aiko", b.Customer().Name)
		assert.Equal(t, "aiko@example.com", b.Customer().Email)
	})

	t.Run("fully covered is confirmed and paid", func(t *testing.T) {
		b := newBooking(t, 2, 2)

		assert.Equal(t, booking.StatusConfirmed, b.Status())
		assert.Equal(t, booking.PaymentPaid, b.PaymentStatus())
	})

	t.Run("error: allocations do not add up", func(t *testing.T) {
		split, err := booking.NewSplit(2, 0)
		require.NoError(t, err)

		_, err = booking.NewBooking(booking.NewBookingParams{
			Split:       split,
			Allocations: []booking.Allocation{{SlotID: uuid.New(), Quantity: 1}},
		}, now)
		assert.ErrorIs(t, err, booking.ErrAllocationMismatch)

		_, err = booking.NewBooking(booking.NewBookingParams{Split: split}, now)
		assert.ErrorIs(t, err, booking.ErrNoAllocations)
	})

	t.Run("error: coverage without subscription", func(t *testing.T) {
		split, err := booking.NewSplit(2, 1)
		require.NoError(t, err)

		_, err = booking.NewBooking(booking.NewBookingParams{
			Split:       split,
			Allocations: []booking.Allocation{{SlotID: uuid.New(), Quantity: 2}},
		}, now)
		assert.ErrorIs(t, err, booking.ErrInvalidSplit)
	})
}

func TestBooking_Cancel(t *testing.T) {
	b := newBooking(t, 1, 0)

	require.NoError(t, b.Cancel(now.Add(time.Minute)))
	assert.True(t, b.IsCancelled())
	assert.Equal(t, now.Add(time.Minute), b.UpdatedAt())

	assert.ErrorIs(t, b.Cancel(now.Add(2*time.Minute)), booking.ErrAlreadyCancelled)
}

func TestBooking_TransitionTo(t *testing.T) {
	b := newBooking(t, 1, 0)

	require.NoError(t, b.TransitionTo(booking.StatusConfirmed, now))
	assert.Equal(t, booking.PaymentPaid, b.PaymentStatus())
	require.NoError(t, b.TransitionTo(booking.StatusCheckedIn, now))
	assert.ErrorIs(t, b.TransitionTo(booking.StatusConfirmed, now), booking.ErrInvalidStatusTransition)
	require.NoError(t, b.TransitionTo(booking.StatusCompleted, now))

	assert.ErrorIs(t, b.Cancel(now), booking.ErrNotCancellable)
	assert.ErrorIs(t, b.TransitionTo("archived", now), booking.ErrInvalidStatus)
}

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, booking.PaymentPaid, booking.DerivePaymentStatus(0))
	assert.Equal(t, booking.PaymentPending, booking.DerivePaymentStatus(1))
}
