package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/autoshop/internal/notify"
	"github.com/polkiloo/autoshop/internal/tracing"
)

// Producer is the subset of kafka.Writer used by Sender.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sender publishes notifications to a topic for downstream mailers.
type Sender struct {
	producer Producer
	topic    string
	logger   *slog.Logger
}

// NewWriter returns a writer acknowledging on all replicas.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
}

// NewSender wraps producer. The topic is only used for logging when the
// producer already targets one.
func NewSender(producer Producer, topic string, logger *slog.Logger) *Sender {
	return &Sender{producer: producer, topic: topic, logger: logger}
}

func (s *Sender) Name() string { return "kafka" }

// Send writes msg keyed by order number so events for one order stay ordered.
func (s *Sender) Send(ctx context.Context, msg notify.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: encode message: %v", notify.ErrPermanent, err)
	}

	headers := []kafka.Header{
		{Key: "content-type", Value: []byte("application/json")},
		{Key: "message-id", Value: []byte(msg.ID)},
		{Key: "message-kind", Value: []byte(msg.Kind)},
	}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	if err := s.producer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.OrderNumber),
		Value:   payload,
		Headers: headers,
		Time:    msg.CreatedAt,
	}); err != nil {
		s.logger.Warn("kafka publish failed", slog.String("topic", s.topic), slog.String("order", msg.OrderNumber), slog.String("error", err.Error()))
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

// Close flushes and closes the producer.
func (s *Sender) Close() error {
	return s.producer.Close()
}
