package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// LogSender writes messages to the application log. It is the fallback when
// no transport is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a sender logging through logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "notification",
		slog.String("id", msg.ID),
		slog.String("kind", string(msg.Kind)),
		slog.String("to", msg.To),
		slog.String("order", msg.OrderNumber),
		slog.String("subject", msg.Subject),
	)
	return nil
}

func (s *LogSender) Name() string { return "log" }

// MultiSender delivers every message through each sender in turn.
type MultiSender []Sender

// PartialDeliveryError reports a fan-out where at least one sender failed
// transiently. Remaining holds only those senders; senders that delivered or
// rejected the message permanently are left out so a retry reaches nobody twice.
type PartialDeliveryError struct {
	Remaining MultiSender
	Rejected  []error
	err       error
}

func (e *PartialDeliveryError) Error() string { return e.err.Error() }

func (e *PartialDeliveryError) Unwrap() error { return e.err }

// Send returns nil when every sender delivered, an ErrPermanent error when all
// failures are permanent, and a *PartialDeliveryError otherwise.
func (m MultiSender) Send(ctx context.Context, msg Message) error {
	var (
		transient []error
		rejected  []error
		remaining MultiSender
	)
	for _, s := range m {
		err := s.Send(ctx, msg)
		switch {
		case err == nil:
		case errors.Is(err, ErrPermanent):
			rejected = append(rejected, fmt.Errorf("%s: %w", s.Name(), err))
		default:
			transient = append(transient, fmt.Errorf("%s: %w", s.Name(), err))
			remaining = append(remaining, s)
		}
	}

	if len(transient) > 0 {
		return &PartialDeliveryError{Remaining: remaining, Rejected: rejected, err: errors.Join(transient...)}
	}
	if len(rejected) > 0 {
		return errors.Join(rejected...)
	}
	return nil
}

func (m MultiSender) Name() string {
	names := make([]string, 0, len(m))
	for _, s := range m {
		names = append(names, s.Name())
	}
	return strings.Join(names, "+")
}
