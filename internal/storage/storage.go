// Package storage selects the repository backend named by the database DSN.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/autoshop/internal/config"
	"github.com/polkiloo/autoshop/internal/domain/repository"
	"github.com/polkiloo/autoshop/internal/storage/postgres"
	"github.com/polkiloo/autoshop/internal/storage/sqlite"
)

const sqliteScheme = "sqlite://"

// Module wires the configured backend and its repository adapters.
var Module = fx.Options(
	fx.Provide(newBackend),
	fx.Provide(
		func(b repository.Backend) repository.Transactor { return b },
		func(b repository.Backend) repository.UserRepository { return b.Users() },
		func(b repository.Backend) repository.ProductRepository { return b.Products() },
		func(b repository.Backend) repository.OrderRepository { return b.Orders() },
		func(b repository.Backend) repository.GarageRepository { return b.Garages() },
		func(b repository.Backend) repository.PackageRepository { return b.Packages() },
		func(b repository.Backend) repository.LicenseRepository { return b.Licenses() },
	),
)

// Open connects to PostgreSQL for postgres:// and postgresql:// DSNs and to
// SQLite for sqlite://path.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (repository.Backend, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		s, err := postgres.New(ctx, dsn, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(dsn, sqliteScheme):
		path := strings.TrimPrefix(dsn, sqliteScheme)
		if path == "" {
			return nil, fmt.Errorf("sqlite dsn %q has no path", dsn)
		}
		s, err := sqlite.New(ctx, path, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported database dsn %q", dsn)
	}
}

type backendParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newBackend(p backendParams) (repository.Backend, error) {
	backend, err := Open(p.Ctx, p.Config.DatabaseURI, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			backend.Close()
			return nil
		},
	})
	return backend, nil
}
