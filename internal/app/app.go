package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/autoshop/internal/config"
	"github.com/polkiloo/autoshop/internal/domain/repository"
	"github.com/polkiloo/autoshop/internal/notify"
	"github.com/polkiloo/autoshop/internal/server/http/handlers"
)

const readHeaderTimeout = 10 * time.Second

// Module wires the store facade, the HTTP server and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewStoreFacade,
		func(f *StoreFacade) handlers.StoreFacade { return f },
		func(b repository.Backend) HealthChecker { return b },
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// Worker is a background component started and stopped with the server.
type Worker interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *notify.Dispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	hook(p.Lifecycle, p.Shutdowner, p.Logger, p.Server, p.Dispatcher, p.Config.ShutdownTimeout)
}

// hook starts the worker before the server accepts requests and stops the
// server before the worker drains, so no message is enqueued after the drain.
func hook(lc fx.Lifecycle, shutdowner fx.Shutdowner, logger *slog.Logger, server *http.Server, worker Worker, timeout time.Duration) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting autoshop", slog.String("addr", server.Addr))
			worker.Start(ctx)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, timeout)
			}
			defer cancel()

			serverErr := server.Shutdown(shutdownCtx)
			if errors.Is(serverErr, http.ErrServerClosed) {
				serverErr = nil
			}
			workerErr := worker.Stop(shutdownCtx)
			if err := errors.Join(serverErr, workerErr); err != nil {
				return err
			}
			logger.Info("autoshop stopped")
			return nil
		},
	})
}
