package commerce

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fulfillsync/internal/config"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
)

// Module exposes the commerce catalog implementation to fx graph.
var Module = fx.Provide(newCatalog)

type catalogParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newCatalog(p catalogParams) (repository.OrderCatalog, error) {
	return NewHTTPClient(Options{
		BaseURL:     p.Config.CommerceBaseURL,
		APIVersion:  p.Config.ShopifyAPIVersion,
		AccessToken: p.Config.ShopifyAdminToken,
		Timeout:     p.Config.UpstreamTimeout,
	}, p.Logger)
}
