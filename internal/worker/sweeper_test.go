//go:build unit

package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"reservation-engine/internal/infra/lease"
	"reservation-engine/internal/worker"
	"reservation-engine/tests/common/builder"
	"reservation-engine/tests/common/memtest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) SweepExpired(context.Context) (int64, error) {
	s.calls.Add(1)
	return 2, s.err
}

type deniedLease struct{ err error }

func (l deniedLease) TryAcquire(context.Context, time.Duration) (bool, error) { return false, l.err }
func (l deniedLease) Release(context.Context) error                           { return nil }

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestLockSweeper_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("sweeps when the lease is granted", func(t *testing.T) {
		sw := &countingSweeper{}
		s := worker.NewLockSweeper(sw, lease.Local{}, time.Minute, quiet())
		assert.Equal(t, int64(2), s.RunOnce(ctx))
		assert.Equal(t, int32(1), sw.calls.Load())
	})

	t.Run("skips when another instance holds the lease", func(t *testing.T) {
		sw := &countingSweeper{}
		s := worker.NewLockSweeper(sw, deniedLease{}, time.Minute, quiet())
		assert.Zero(t, s.RunOnce(ctx))
		assert.Zero(t, sw.calls.Load())
	})

	t.Run("lease errors are swallowed", func(t *testing.T) {
		sw := &countingSweeper{}
		s := worker.NewLockSweeper(sw, deniedLease{err: errors.New("redis down")}, time.Minute, quiet())
		assert.Zero(t, s.RunOnce(ctx))
		assert.Zero(t, sw.calls.Load())
	})

	t.Run("sweep errors are swallowed", func(t *testing.T) {
		sw := &countingSweeper{err: errors.New("db down")}
		s := worker.NewLockSweeper(sw, lease.Local{}, time.Minute, quiet())
		assert.Zero(t, s.RunOnce(ctx))
	})
}

func TestLockSweeper_LoopKeepsRunningAfterFailure(t *testing.T) {
	sw := &countingSweeper{err: errors.New("db down")}
	s := worker.NewLockSweeper(sw, lease.Local{}, 5*time.Millisecond, quiet())
	s.Start()

	require.Eventually(t, func() bool { return sw.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestLockSweeper_DeletesOnlyExpiredLocks(t *testing.T) {
	env := memtest.NewEnv(t)
	slot := env.SeedSlot(t, builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) { b.Capacity = 2 }))
	env.Acquire(t, slot.ID(), uuid.New(), 1)
	env.Clock.Add(env.LockCfg.DefaultTTL)
	env.Acquire(t, slot.ID(), uuid.New(), 1)

	s := worker.NewLockSweeper(env.Locks, lease.Local{}, time.Minute, quiet())

	assert.Equal(t, int64(1), s.RunOnce(context.Background()))
	assert.Len(t, env.StoredLocks(t, slot.ID()), 1)
}
