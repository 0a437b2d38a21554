package mailgw

import (
	"log/slog"

	"github.com/polkiloo/autoshop/internal/config"
)

// FromConfig returns a gateway sender, or nil when MAIL_GATEWAY_URL is unset.
func FromConfig(cfg *config.Config, logger *slog.Logger) (*HTTPSender, error) {
	if cfg.MailGatewayURL == "" {
		return nil, nil
	}
	return NewHTTPSender(cfg.MailGatewayURL, logger)
}
