package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/autoshop/internal/config"
	"github.com/polkiloo/autoshop/internal/domain/repository"
	"github.com/polkiloo/autoshop/internal/usecase"
)

// Module provides the dispatcher and the order notifier. A Sender must be
// supplied by another module.
var Module = fx.Provide(
	newDispatcher,
	func(d *Dispatcher) Queue { return d },
	func(users repository.UserRepository) AdminDirectory { return UserAdminDirectory{Users: users} },
	NewNotifier,
	func(n *Notifier) usecase.OrderNotifier { return n },
)

type dispatcherParams struct {
	fx.In

	Config *config.Config
	Sender Sender
	Logger *slog.Logger
}

func newDispatcher(p dispatcherParams) *Dispatcher {
	return NewDispatcher(p.Sender, DispatcherOptions{
		Workers:     p.Config.NotifyWorkers,
		QueueSize:   p.Config.NotifyQueueSize,
		MaxAttempts: p.Config.NotifyMaxAttempts,
		Backoff:     p.Config.NotifyBackoff,
	}, p.Logger)
}
