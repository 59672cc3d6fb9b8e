//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"reservation-engine/internal/domain/capacity"
	"reservation-engine/internal/domain/entitlement"
	"reservation-engine/internal/domain/hold"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/memstore"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)

func seedSlot(t *testing.T, store *memstore.Store, employee *uuid.UUID, tenantID, serviceID uuid.UUID, start time.Time, capacityUnits int) *capacity.Slot {
	t.Helper()
	slot, err := capacity.NewSlot(capacity.NewSlotParams{
		TenantID:   tenantID,
		ServiceID:  serviceID,
		EmployeeID: employee,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Capacity:   capacityUnits,
	})
	require.NoError(t, err)
	store.PutSlot(slot)
	return slot
}

func TestUoW_RollbackRestoresEveryWrite(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStore()
	uow := memstore.NewUoW(store)
	slot := seedSlot(t, store, nil, uuid.New(), uuid.New(), base, 3)
	usage, err := entitlement.NewUsage(uuid.New(), slot.ServiceID(), 2)
	require.NoError(t, err)
	store.PutUsage(usage)

	stale, err := hold.NewLock(slot.ID(), uuid.New(), 1, time.Minute, base.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Locks().Create(ctx, stale)
	}))

	boom := errors.New("boom")
	err = uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().GetForUpdate(ctx, slot.ID())
		require.NoError(t, err)
		require.NoError(t, s.Decrement(2))
		require.NoError(t, tx.Slots().UpdateCounters(ctx, s))

		u, err := tx.Packages().GetForUpdate(ctx, usage.SubscriptionID(), usage.ServiceID())
		require.NoError(t, err)
		require.NoError(t, u.Commit(2))
		require.NoError(t, tx.Packages().Update(ctx, u))

		l, err := hold.NewLock(slot.ID(), uuid.New(), 1, time.Minute, base)
		require.NoError(t, err)
		require.NoError(t, tx.Locks().Create(ctx, l))

		n, err := tx.Locks().DeleteExpired(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().Get(ctx, slot.ID())
		require.NoError(t, err)
		assert.Equal(t, 3, s.AvailableCapacity())
		assert.Zero(t, s.BookedCount())

		u, err := tx.Packages().Get(ctx, usage.SubscriptionID(), usage.ServiceID())
		require.NoError(t, err)
		assert.Equal(t, 2, u.Remaining())

		locks, err := tx.Locks().ListBySlot(ctx, slot.ID())
		require.NoError(t, err)
		require.Len(t, locks, 1)
		assert.Equal(t, stale.ID(), locks[0].ID())
		return nil
	}))
}

func TestUoW_ReadOnlyRejectsWrites(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStore()
	uow := memstore.NewUoW(store)
	slot := seedSlot(t, store, nil, uuid.New(), uuid.New(), base, 1)

	err := uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Slots().Get(ctx, slot.ID())
		require.NoError(t, err)
		return tx.Slots().UpdateCounters(ctx, s)
	})
	assert.True(t, infra.IsKind(err, infra.KindReadOnly))
}

func TestRepositories_NotFound(t *testing.T) {
	ctx := context.Background()
	uow := memstore.NewUoW(memstore.NewStore())

	_ = uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Slots().Get(ctx, uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		_, err = tx.Bookings().Get(ctx, uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		_, err = tx.Packages().Get(ctx, uuid.New(), uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		err = tx.Locks().Delete(ctx, uuid.New())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
		return nil
	})
}

func TestCatalog_CandidateUnits(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewStore()
	uow := memstore.NewUoW(store)
	tenantID, serviceID := uuid.New(), uuid.New()
	emp := uuid.New()

	late := seedSlot(t, store, &emp, tenantID, serviceID, base.Add(time.Hour), 1)
	early := seedSlot(t, store, &emp, tenantID, serviceID, base, 1)
	seedSlot(t, store, nil, tenantID, serviceID, base, 5)                     // not employee-owned
	seedSlot(t, store, &emp, tenantID, uuid.New(), base, 1)                   // other service
	seedSlot(t, store, &emp, tenantID, serviceID, base.Add(24*time.Hour), 1)  // other day
	seedSlot(t, store, &emp, uuid.New(), serviceID, base.Add(2*time.Hour), 1) // other tenant

	require.NoError(t, uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		units, err := tx.Catalog().CandidateUnits(ctx, tenantID, serviceID, early.Date())
		require.NoError(t, err)
		require.Len(t, units, 2)
		assert.Equal(t, early.ID(), units[0].ID())
		assert.Equal(t, late.ID(), units[1].ID())
		return nil
	}))
}
