package idempotency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/autoshop/internal/config"
)

const keyPrefix = "autoshop:idem:"

// Module provides the idempotency Guard.
var Module = fx.Provide(newGuard)

type guardParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newGuard(p guardParams) (Guard, error) {
	if p.Config.RedisURL == "" {
		p.Logger.Info("redis not configured, idempotency keys are kept in memory")
		return NewMemoryGuard(), nil
	}

	opts, err := redis.ParseURL(p.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("ping redis: %w", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return NewRedisGuard(client, keyPrefix), nil
}
