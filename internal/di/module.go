package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/autoshop/internal/adapter"
	"github.com/polkiloo/autoshop/internal/app"
	"github.com/polkiloo/autoshop/internal/config"
	"github.com/polkiloo/autoshop/internal/idempotency"
	"github.com/polkiloo/autoshop/internal/invoice"
	"github.com/polkiloo/autoshop/internal/logger"
	"github.com/polkiloo/autoshop/internal/notify"
	"github.com/polkiloo/autoshop/internal/pkg/auth"
	"github.com/polkiloo/autoshop/internal/server/http/router"
	"github.com/polkiloo/autoshop/internal/storage"
	"github.com/polkiloo/autoshop/internal/tracing"
	"github.com/polkiloo/autoshop/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		tracing.Module,
		auth.Module,
		storage.Module,
		adapter.Module,
		notify.Module,
		invoice.Module,
		idempotency.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
