package dispatch

import (
	"context"
	"encoding/json"
	"sync"

	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitSink publishes to a durable topic exchange; the routing key is the
// event type, e.g. "booking.created".
type RabbitSink struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbitSink(url, exchange string) (*RabbitSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Wrap(err, "dial rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, errs.Wrap(err, "declare exchange")
	}
	return &RabbitSink{conn: conn, ch: ch, exchange: exchange}, nil
}

// Dispatch serializes publishes; amqp channels are not safe for concurrent use.
func (s *RabbitSink) Dispatch(ctx context.Context, event shared.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "marshal booking event")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch == nil {
		return ErrClosed
	}
	err = s.ch.PublishWithContext(ctx, s.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.BookingID.String() + ":" + event.Type,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return errs.Wrap(err, "publish booking event")
	}
	return nil
}

func (s *RabbitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		_ = s.ch.Close()
		s.ch = nil
	}
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}
