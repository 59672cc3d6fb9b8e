package bootstrap

import (
	"log/slog"

	"reservation-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logConfigSummary),
)

// logConfigSummary records the drivers and lock policy the process runs with.
// Secrets and connection strings stay out of the log.
func logConfigSummary(cfg config.Config, logger *slog.Logger) {
	logger.Info("configuration loaded",
		"store_driver", cfg.Store.Driver,
		"notify_driver", cfg.Notify.Driver,
		"sweep_lease", cfg.Redis.Addr != "",
		"lock_default_ttl", cfg.Lock.DefaultTTL,
		"lock_max_ttl", cfg.Lock.MaxTTL,
		"lock_sweep_interval", cfg.Lock.SweepInterval,
		"tracing_exporter", cfg.Tracing.OTLPEndpoint != "",
	)
}
