// Package dispatch delivers booking events to collaborators after commit.
// Delivery is best effort: failures are logged and never reach the booking.
package dispatch

import (
	"context"
	"log/slog"

	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"
)

var ErrClosed = errs.New("dispatcher is closed")

// Sink is a dispatcher that owns a connection.
type Sink interface {
	shared.Dispatcher
	Close() error
}

// LogSink writes events to the structured log. Used when no broker is configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Dispatch(ctx context.Context, event shared.BookingEvent) error {
	s.logger.InfoContext(ctx, "booking event",
		"type", event.Type,
		"booking_id", event.BookingID,
		"tenant_id", event.TenantID,
		"status", event.Status)
	return nil
}

func (s *LogSink) Close() error { return nil }
