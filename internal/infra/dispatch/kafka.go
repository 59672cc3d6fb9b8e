package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"

	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink writes events keyed by booking ID so one booking's events stay
// ordered within a partition.
type KafkaSink struct {
	writer kafkaWriter
}

func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, errs.New("at least one kafka broker is required")
	}
	if topic == "" {
		return nil, errs.New("kafka topic cannot be empty")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		Logger:       kafka.LoggerFunc(func(string, ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			slog.Warn("kafka writer error", "detail", msg, "args", args)
		}),
	}
	return &KafkaSink{writer: writer}, nil
}

func (s *KafkaSink) Dispatch(ctx context.Context, event shared.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "marshal booking event")
	}
	msg := kafka.Message{
		Key:   []byte(event.BookingID.String()),
		Value: body,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "tenant_id", Value: []byte(event.TenantID.String())},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return errs.Wrap(err, "write booking event")
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
