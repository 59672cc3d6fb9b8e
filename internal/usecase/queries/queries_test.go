//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/internal/usecase/shared"
	"reservation-engine/tests/common/builder"
	"reservation-engine/tests/common/memtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotQueries_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("live locks reduce bookable capacity, expired ones do not", func(t *testing.T) {
		env := memtest.NewEnv(t)
		slot := env.SeedSlot(t, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
			b.Capacity = 10
			b.Booked = 3
		}))
		q := queries.NewSlotQueries(env.UoW, env.Clock)

		env.Acquire(t, slot.ID(), uuid.New(), 2)
		env.Clock.Add(env.LockCfg.DefaultTTL / 2)
		env.Acquire(t, slot.ID(), uuid.New(), 1)

		view, err := q.GetByID(ctx, slot.ID())
		require.NoError(t, err)
		assert.Equal(t, 10, view.OriginalCapacity)
		assert.Equal(t, 7, view.AvailableCapacity)
		assert.Equal(t, 3, view.BookedCount)
		assert.Equal(t, 3, view.LockedCapacity)
		assert.Equal(t, 4, view.BookableCapacity)

		// the first lock reaches its expiry exactly now
		env.Clock.Add(env.LockCfg.DefaultTTL / 2)
		view, err = q.GetByID(ctx, slot.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, view.LockedCapacity)
		assert.Equal(t, 6, view.BookableCapacity)
	})

	t.Run("unknown slot", func(t *testing.T) {
		env := memtest.NewEnv(t)
		_, err := queries.NewSlotQueries(env.UoW, env.Clock).GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrSlotNotFound)
	})
}

func TestBookingQueries_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the booking with its allocations", func(t *testing.T) {
		env := memtest.NewEnv(t)
		slot := env.SeedSlot(t, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) { b.Capacity = 4 }))
		session := uuid.New()
		lockID := env.Acquire(t, slot.ID(), session, 2).ID()

		created, err := env.Commands.CreateBooking(ctx, commands.CreateBookingParams{
			TenantID:     slot.TenantID(),
			SessionID:    session,
			LockID:       &lockID,
			SlotID:       slot.ID(),
			VisitorCount: 2,
			Customer:     commands.CustomerParams{Name: "Sam"},
		})
		require.NoError(t, err)

		view, err := queries.NewBookingQueries(env.UoW).GetByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, created.ID(), view.ID)
		assert.Equal(t, slot.ID(), view.SlotID)
		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, []queries.AllocationView{{SlotID: slot.ID(), Quantity: 2}}, view.Allocations)
		assert.WithinDuration(t, env.Clock.Now(), view.CreatedAt, time.Second)
	})

	t.Run("unknown booking", func(t *testing.T) {
		env := memtest.NewEnv(t)
		_, err := queries.NewBookingQueries(env.UoW).GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrBookingNotFound)
	})
}

func TestPackageQueries_QuoteCoverage(t *testing.T) {
	ctx := context.Background()
	env := memtest.NewEnv(t)
	serviceID := uuid.New()
	usage := env.SeedUsage(t, builder.NewUsageBuilder(serviceID).With(func(b *builder.UsageBuilder) {
		b.Original = 5
		b.Used = 3
	}))
	q := queries.NewPackageQueries(env.Entitlement)

	tests := []struct {
		name      string
		requested int
		covered   int
		uncovered int
	}{
		{name: "fully covered", requested: 1, covered: 1, uncovered: 0},
		{name: "exactly the balance", requested: 2, covered: 2, uncovered: 0},
		{name: "partially covered", requested: 4, covered: 2, uncovered: 2},
		{name: "nothing requested", requested: 0, covered: 0, uncovered: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := q.QuoteCoverage(ctx, usage.SubscriptionID(), serviceID, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.covered, view.Covered)
			assert.Equal(t, tt.uncovered, view.Uncovered)
			assert.Equal(t, 2, view.Remaining)
		})
	}

	t.Run("quote does not consume the balance", func(t *testing.T) {
		assert.Equal(t, 2, env.Usage(t, usage.SubscriptionID(), serviceID).Remaining())
	})

	t.Run("unknown subscription", func(t *testing.T) {
		_, err := q.QuoteCoverage(ctx, uuid.New(), serviceID, 1)
		assert.ErrorIs(t, err, shared.ErrPackageNotFound)
	})

	t.Run("negative request", func(t *testing.T) {
		_, err := q.QuoteCoverage(ctx, usage.SubscriptionID(), serviceID, -1)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}
