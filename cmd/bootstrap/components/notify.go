package components

import (
	"context"
	"fmt"
	"log/slog"

	"reservation-engine/internal/infra/dispatch"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewDispatcher,
	),
)

func newSink(cfg config.NotifyConfig, logger *slog.Logger) (dispatch.Sink, error) {
	switch cfg.Driver {
	case config.NotifyDriverLog:
		return dispatch.NewLogSink(logger), nil
	case config.NotifyDriverRabbitMQ:
		return dispatch.NewRabbitSink(cfg.RabbitURL, cfg.Exchange)
	case config.NotifyDriverKafka:
		return dispatch.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return nil, fmt.Errorf("unknown NOTIFY_DRIVER %q", cfg.Driver)
	}
}

// NewDispatcher delivers booking events off the request path. On stop it
// drains in-flight deliveries before closing the sink.
func NewDispatcher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.Dispatcher, error) {
	sink, err := newSink(cfg.Notify, logger)
	if err != nil {
		return nil, err
	}
	async := dispatch.NewAsync(sink, cfg.Notify.Timeout, logger)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := async.Shutdown(ctx); err != nil {
				logger.Warn("booking event delivery did not drain", "error", err)
			}
			return sink.Close()
		},
	})
	logger.Info("booking event dispatcher ready", "driver", cfg.Notify.Driver)
	return async, nil
}
