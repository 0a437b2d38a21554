package adapter

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/autoshop/internal/adapter/kafka"
	"github.com/polkiloo/autoshop/internal/adapter/mailgw"
	"github.com/polkiloo/autoshop/internal/config"
	"github.com/polkiloo/autoshop/internal/notify"
)

// Module exposes the notification transport selected by configuration.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newSender(p senderParams) (notify.Sender, error) {
	var senders notify.MultiSender

	if len(p.Config.KafkaBrokers) > 0 {
		writer := kafka.NewWriter(p.Config.KafkaBrokers, p.Config.NotifyTopic)
		sender := kafka.NewSender(writer, p.Config.NotifyTopic, p.Logger)
		p.Lifecycle.Append(fx.Hook{OnStop: func(context.Context) error {
			return sender.Close()
		}})
		senders = append(senders, sender)
	}

	mail, err := mailgw.FromConfig(p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	if mail != nil {
		senders = append(senders, mail)
	}

	switch len(senders) {
	case 0:
		p.Logger.Warn("no notification transport configured, messages will be logged")
		return notify.NewLogSender(p.Logger), nil
	case 1:
		return senders[0], nil
	default:
		return senders, nil
	}
}
