package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/fulfillsync/internal/config"
)

// Module provides verification primitives via fx.
var Module = fx.Options(
	fx.Provide(newCodeHasher),
	fx.Provide(newTokenStrategy),
)

func newCodeHasher() CodeHasher {
	return NewBcryptHasher(0)
}

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewHMACStrategy(p.Config.VerificationSecret, Options{TTL: p.Config.VerificationTokenTTL})
}
