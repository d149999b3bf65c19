package mailer

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fulfillsync/internal/config"
)

// Module exposes the configured Sender.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (Sender, error) {
	if p.Config.MailRelayURL == "" {
		p.Logger.Warn("mail relay not configured, verification codes will only be logged")
		return NewLogSender(p.Logger), nil
	}
	return NewRelayClient(p.Config.MailRelayURL, p.Config.MailRelayToken, p.Config.MailFrom, p.Config.UpstreamTimeout, p.Logger)
}
