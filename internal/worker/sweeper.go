package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type ExpiredLockSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Lease elects the instance that sweeps in a given interval.
type Lease interface {
	TryAcquire(ctx context.Context, ttl time.Duration) (bool, error)
	Release(ctx context.Context) error
}

// LockSweeper deletes expired reservation locks on a fixed interval. Expired
// locks already stop counting against capacity, so a missed sweep only
// leaves rows behind; failures are logged and the loop keeps going.
type LockSweeper struct {
	sweeper  ExpiredLockSweeper
	lease    Lease
	interval time.Duration
	logger   *slog.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewLockSweeper(sweeper ExpiredLockSweeper, lease Lease, interval time.Duration, logger *slog.Logger) *LockSweeper {
	return &LockSweeper{
		sweeper:  sweeper,
		lease:    lease,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *LockSweeper) Start() {
	go s.loop()
}

func (s *LockSweeper) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			s.RunOnce(ctx)
			cancel()
		}
	}
}

// RunOnce sweeps if this instance wins the lease and reports rows deleted.
func (s *LockSweeper) RunOnce(ctx context.Context) int64 {
	ok, err := s.lease.TryAcquire(ctx, s.interval)
	if err != nil {
		s.logger.Warn("lock sweep lease unavailable", "error", err.Error())
		return 0
	}
	if !ok {
		s.logger.Debug("lock sweep skipped, lease held elsewhere")
		return 0
	}

	deleted, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.logger.Warn("lock sweep failed", "error", err.Error())
		return 0
	}
	s.logger.Debug("lock sweep finished", "deleted", deleted)
	return deleted
}

// Stop ends the loop and gives up the lease. Safe to call more than once.
func (s *LockSweeper) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := s.lease.Release(ctx); err != nil {
		s.logger.Warn("failed to release lock sweep lease", "error", err.Error())
	}
	return nil
}
