package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrQueueFull is returned when the dispatcher buffer has no room.
	ErrQueueFull = errors.New("notification queue is full")
	// ErrDispatcherStopped is returned for messages enqueued after Stop.
	ErrDispatcherStopped = errors.New("notification dispatcher stopped")
	// ErrPermanent marks a delivery failure that retrying cannot fix.
	ErrPermanent = errors.New("permanent delivery failure")
)

// Sender delivers a single message through a transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// RetryHinter is implemented by errors that carry a server supplied delay.
type RetryHinter interface {
	RetryDelay() time.Duration
}

// DispatcherOptions tunes the worker pool.
type DispatcherOptions struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
}

// Dispatcher delivers queued messages using a pool of workers.
type Dispatcher struct {
	sender      Sender
	workers     int
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error

	jobs    chan Message
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewDispatcher constructs a dispatcher for sender.
func NewDispatcher(sender Sender, opts DispatcherOptions, logger *slog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 100 * time.Millisecond
	}
	return &Dispatcher{
		sender:      sender,
		workers:     opts.Workers,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.Backoff,
		logger:      logger,
		sleep:       sleepContext,
		jobs:        make(chan Message, opts.QueueSize),
	}
}

// Enqueue schedules msg without blocking.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrDispatcherStopped
	}
	select {
	case d.jobs <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
	d.logger.Info("notification dispatcher started", slog.String("sender", d.sender.Name()), slog.Int("workers", d.workers))
}

// Stop closes the queue and lets workers drain it. When ctx expires first the
// in-flight deliveries are cancelled and the remaining messages are dropped.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.jobs)
	cancel := d.cancel
	d.mu.Unlock()

	if cancel == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		cancel()
		return nil
	case <-ctx.Done():
		cancel()
		<-done
		return fmt.Errorf("stop dispatcher: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for msg := range d.jobs {
		if ctx.Err() != nil {
			d.logger.Warn("notification dropped on shutdown", slog.String("order", msg.OrderNumber), slog.String("recipient", msg.To))
			continue
		}
		d.deliver(ctx, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	delay := d.backoff
	sender := d.sender
	for attempt := 1; ; attempt++ {
		err := sender.Send(ctx, msg)
		if err == nil {
			d.logger.Debug("notification delivered",
				slog.String("order", msg.OrderNumber), slog.String("recipient", msg.To), slog.String("kind", string(msg.Kind)), slog.Int("attempt", attempt))
			return
		}

		var partial *PartialDeliveryError
		if errors.As(err, &partial) {
			for _, rejected := range partial.Rejected {
				d.logger.Error("notification rejected by transport",
					slog.String("order", msg.OrderNumber), slog.String("recipient", msg.To), slog.String("error", rejected.Error()))
			}
			sender = partial.Remaining
		}

		if errors.Is(err, ErrPermanent) || attempt >= d.maxAttempts {
			d.logger.Error("notification delivery failed",
				slog.String("order", msg.OrderNumber), slog.String("recipient", msg.To), slog.String("kind", string(msg.Kind)),
				slog.Int("attempts", attempt), slog.String("error", err.Error()))
			return
		}

		wait := delay
		var hint RetryHinter
		if errors.As(err, &hint) && hint.RetryDelay() > 0 {
			wait = hint.RetryDelay()
		}
		d.logger.Warn("notification delivery retry",
			slog.String("order", msg.OrderNumber), slog.String("recipient", msg.To), slog.Int("attempt", attempt),
			slog.Duration("retry_after", wait), slog.String("error", err.Error()))

		if err := d.sleep(ctx, wait); err != nil {
			d.logger.Error("notification delivery aborted",
				slog.String("order", msg.OrderNumber), slog.String("recipient", msg.To), slog.String("error", err.Error()))
			return
		}
		delay *= 2
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
