package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/fulfillsync/internal/adapter/commerce"
	"github.com/polkiloo/fulfillsync/internal/adapter/ledger"
	"github.com/polkiloo/fulfillsync/internal/adapter/mailer"
	"github.com/polkiloo/fulfillsync/internal/app"
	"github.com/polkiloo/fulfillsync/internal/config"
	"github.com/polkiloo/fulfillsync/internal/logger"
	"github.com/polkiloo/fulfillsync/internal/pkg/auth"
	"github.com/polkiloo/fulfillsync/internal/server/http/handlers"
	"github.com/polkiloo/fulfillsync/internal/server/http/router"
	"github.com/polkiloo/fulfillsync/internal/storage/postgres"
	"github.com/polkiloo/fulfillsync/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		ledger.Module,
		commerce.Module,
		mailer.Module,
		usecase.Module,
		fx.Provide(
			func(f *app.Facade) handlers.Facade { return f },
			func(s *postgres.Storage) handlers.Pinger { return s },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
