package bootstrap

import (
	"context"
	"log/slog"

	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/obs"

	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Invoke(StartTracing),
)

func StartTracing(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) {
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			fn, err := obs.InitTracer(ctx, cfg.Tracing)
			if err != nil {
				return err
			}
			shutdown = fn
			logger.Info("tracing initialised", "service", cfg.Tracing.ServiceName, "exporter", cfg.Tracing.OTLPEndpoint != "")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}
