package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reservation-engine/internal/usecase/shared"
)

// Async hands each event to the sink on its own goroutine, bounded by timeout.
// Dispatch never blocks the caller and always returns nil unless closed.
type Async struct {
	sink    shared.Dispatcher
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsync(sink shared.Dispatcher, timeout time.Duration, logger *slog.Logger) *Async {
	return &Async{sink: sink, timeout: timeout, logger: logger}
}

func (a *Async) Dispatch(ctx context.Context, event shared.BookingEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()

		start := time.Now()
		if err := a.sink.Dispatch(sendCtx, event); err != nil {
			a.logger.Warn("booking event delivery failed",
				"type", event.Type,
				"booking_id", event.BookingID,
				"elapsed_ms", time.Since(start).Milliseconds(),
				"error", err.Error())
			return
		}
		a.logger.Debug("booking event delivered", "type", event.Type, "booking_id", event.BookingID)
	}()
	return nil
}

// Shutdown stops accepting events and waits for in-flight deliveries or ctx.
func (a *Async) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
