package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/polkiloo/autoshop/internal/notify"
	"github.com/polkiloo/autoshop/internal/tracing"
)

type producerStub struct {
	Written []kafka.Message
	Err     error
	Closed  bool
}

func (p *producerStub) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if p.Err != nil {
		return p.Err
	}
	p.Written = append(p.Written, msgs...)
	return nil
}

func (p *producerStub) Close() error {
	p.Closed = true
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestSenderPublishesKeyedMessage(t *testing.T) {
	tracing.Setup()
	producer := &producerStub{}
	sender := NewSender(producer, "autoshop.notifications", slog.New(slog.NewJSONHandler(io.Discard, nil)))

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	msg := notify.Message{
		ID: "m-1", Kind: notify.KindStatusUpdate, To: "mary@example.com",
		Subject: "Order ORD-1 is shipped", OrderNumber: "ORD-1",
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := sender.Send(ctx, msg); err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(producer.Written) != 1 {
		t.Fatalf("expected one record, got %d", len(producer.Written))
	}
	rec := producer.Written[0]
	if string(rec.Key) != "ORD-1" || !rec.Time.Equal(msg.CreatedAt) {
		t.Fatalf("unexpected record key/time %q %s", rec.Key, rec.Time)
	}
	if header(rec, "message-kind") != "status_update" || header(rec, "message-id") != "m-1" {
		t.Fatalf("unexpected headers %v", rec.Headers)
	}
	if header(rec, tracing.TraceparentHeader) == "" {
		t.Fatal("expected trace context propagated")
	}

	var decoded notify.Message
	if err := json.Unmarshal(rec.Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.To != msg.To || decoded.Subject != msg.Subject {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestSenderWrapsProducerErrors(t *testing.T) {
	boom := errors.New("leader not available")
	producer := &producerStub{Err: boom}
	sender := NewSender(producer, "t", slog.New(slog.NewJSONHandler(io.Discard, nil)))

	err := sender.Send(context.Background(), notify.Message{ID: "x", OrderNumber: "ORD-2"})
	if !errors.Is(err, boom) || errors.Is(err, notify.ErrPermanent) {
		t.Fatalf("expected retryable wrapped error, got %v", err)
	}

	if err := sender.Close(); err != nil || !producer.Closed {
		t.Fatal("expected producer closed")
	}
}

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"k1:9092", "k2:9092"}, "topic")
	defer w.Close()
	if w.Topic != "topic" || w.RequiredAcks != kafka.RequireAll || w.Addr == nil {
		t.Fatalf("unexpected writer config %+v", w)
	}
}
