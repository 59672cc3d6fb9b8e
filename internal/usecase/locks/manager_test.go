//go:build unit

package locks_test

import (
	"context"
	"testing"
	"time"

	"reservation-engine/internal/usecase/locks"
	"reservation-engine/internal/usecase/shared"
	"reservation-engine/tests/common/builder"
	"reservation-engine/tests/common/memtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("success: uses default ttl", func(t *testing.T) {
		env := memtest.NewEnv(t)
		slot := env.SeedSlot(t, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) { b.Capacity = 2 }))

		lock, err := env.Locks.Acquire(ctx, slot.ID(), uuid.New(), 2, 0)

		require.NoError(t, err)
		assert.Equal(t, env.Clock.Now().Add(env.LockCfg.DefaultTTL), lock.ExpiresAt())
		assert.Equal(t, 2, lock.ReservedCapacity())
	})

	t.Run("error: live locks exhaust headroom", func(t *testing.T) {
		env := memtest.NewEnv(t)
		slot := env.SeedSlot(t, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) { b.Capacity = 3 }))
		env.Acquire(t, slot.ID(), uuid.New(), 2)

		_, err := env.Locks.Acquire(ctx, slot.ID(), uuid.New(), 2, 0)
		assert.ErrorIs(t, err, shared.ErrCapacityContended)

		_, err = env.Locks.Acquire(ctx, slot.ID(), uuid.New(), 1, 0)
		assert.NoError(t, err)
	})

	t.Run("expired locks free their capacity", func(t *testing.T) {
		env := memtest.NewEnv(t)
		slot := env.SeedSlot(t, builder.NewSlotBuilder())
		env.Acquire(t, slot.ID(), uuid.New(), 1)

		env.Clock.Add(env.LockCfg.DefaultTTL - time.Nanosecond)
		_, err := env.Locks.Acquire(ctx, slot.ID(), uuid.New(), 1, 0)
		require.ErrorIs(t, err, shared.ErrCapacityContended)

		env.Clock.Add(time.Nanosecond)
		_, err = env.Locks.Acquire(ctx, slot.ID(), uuid.New(), 1, 0)
		assert.NoError(t, err)
	})

	t.Run("error: unavailable slot has no headroom", func(t *testing.T) {
		env := memtest.NewEnv(t)
		slot := env.SeedSlot(t, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) { b.Available = false }))

		_, err := env.Locks.Acquire(ctx, slot.ID(), uuid.New(), 1, 0)
		assert.ErrorIs(t, err, shared.ErrCapacityContended)
	})

	testCases := []struct {
		name  string
		qty   int
		ttl   time.Duration
		errIs error
	}{
		{name: "zero quantity", qty: 0, errIs: shared.ErrValidation},
		{name: "negative ttl", qty: 1, ttl: -time.Second, errIs: locks.ErrInvalidTTL},
		{name: "ttl above max", qty: 1, ttl: time.Hour, errIs: locks.ErrInvalidTTL},
	}
	for _, tc := range testCases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			env := memtest.NewEnv(t)
			slot := env.SeedSlot(t, builder.NewSlotBuilder())

			_, err := env.Locks.Acquire(ctx, slot.ID(), uuid.New(), tc.qty, tc.ttl)

			assert.ErrorIs(t, err, tc.errIs)
			assert.Empty(t, env.StoredLocks(t, slot.ID()))
		})
	}

	t.Run("error: unknown slot", func(t *testing.T) {
		env := memtest.NewEnv(t)
		_, err := env.Locks.Acquire(ctx, uuid.New(), uuid.New(), 1, 0)
		assert.ErrorIs(t, err, shared.ErrSlotNotFound)
	})
}

func TestManager_Validate(t *testing.T) {
	ctx := context.Background()
	env := memtest.NewEnv(t)
	slot := env.SeedSlot(t, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) { b.Capacity = 5 }))
	session := uuid.New()
	lock := env.Acquire(t, slot.ID(), session, 1)

	validate := func(lockID, sessionID, slotID uuid.UUID) error {
		return env.UoW.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
			_, err := env.Locks.Validate(ctx, tx, lockID, sessionID, slotID)
			return err
		})
	}

	assert.NoError(t, validate(lock.ID(), session, slot.ID()))
	assert.ErrorIs(t, validate(lock.ID(), uuid.New(), slot.ID()), shared.ErrInvalidLock)
	assert.ErrorIs(t, validate(lock.ID(), session, uuid.New()), shared.ErrInvalidLock)
	assert.ErrorIs(t, validate(uuid.New(), session, slot.ID()), shared.ErrLockNotFound)

	env.Clock.Add(env.LockCfg.DefaultTTL)
	assert.ErrorIs(t, validate(lock.ID(), session, slot.ID()), shared.ErrInvalidLock)
}

func TestManager_Release(t *testing.T) {
	ctx := context.Background()
	env := memtest.NewEnv(t)
	slot := env.SeedSlot(t, builder.NewSlotBuilder())
	session := uuid.New()
	lock := env.Acquire(t, slot.ID(), session, 1)

	err := env.Locks.Release(ctx, lock.ID(), uuid.New())
	require.ErrorIs(t, err, shared.ErrInvalidLock)
	require.Len(t, env.StoredLocks(t, slot.ID()), 1)

	require.NoError(t, env.Locks.Release(ctx, lock.ID(), session))
	assert.Empty(t, env.StoredLocks(t, slot.ID()))

	_, err = env.Locks.Acquire(ctx, slot.ID(), uuid.New(), 1, 0)
	assert.NoError(t, err, "released capacity is lockable again")

	assert.ErrorIs(t, env.Locks.Release(ctx, lock.ID(), session), shared.ErrLockNotFound)
}

func TestManager_SweepExpired(t *testing.T) {
	ctx := context.Background()
	env := memtest.NewEnv(t)
	slot := env.SeedSlot(t, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) { b.Capacity = 3 }))

	env.Acquire(t, slot.ID(), uuid.New(), 1)
	_, err := env.Locks.Acquire(ctx, slot.ID(), uuid.New(), 1, 10*time.Minute)
	require.NoError(t, err)

	n, err := env.Locks.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	env.Clock.Add(env.LockCfg.DefaultTTL)
	n, err = env.Locks.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, env.StoredLocks(t, slot.ID()), 1)
}
