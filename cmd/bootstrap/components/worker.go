package components

import (
	"context"
	"log/slog"
	"os"

	"reservation-engine/internal/infra/lease"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/locks"
	"reservation-engine/internal/worker"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const sweepLeaseKey = "reservation-engine:lock-sweeper"

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweepLease,
		func(m *locks.Manager) worker.ExpiredLockSweeper { return m },
	),
	fx.Invoke(StartLockSweeper),
)

// NewSweepLease elects one sweeping instance through Redis. Without a Redis
// address every instance sweeps; deletes of expired rows are idempotent.
func NewSweepLease(lc fx.Lifecycle, cfg config.Config) worker.Lease {
	if cfg.Redis.Addr == "" {
		return lease.Local{}
	}
	pool := lease.NewRedisPool(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pool.Close()
		},
	})
	return lease.NewRedisLease(pool, sweepLeaseKey, instanceID())
}

func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return host + "-" + uuid.NewString()
}

func StartLockSweeper(lc fx.Lifecycle, cfg config.Config, sweeper worker.ExpiredLockSweeper, l worker.Lease, logger *slog.Logger) {
	s := worker.NewLockSweeper(sweeper, l, cfg.Lock.SweepInterval, logger)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return s.Stop(ctx)
		},
	})
}
