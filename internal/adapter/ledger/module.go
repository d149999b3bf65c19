package ledger

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fulfillsync/internal/config"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
)

// Module provides the ledger reader (read-only scope) and writer (read-write scope).
var Module = fx.Provide(newBooks)

type booksParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

type booksResult struct {
	fx.Out

	Reader repository.ProductionReader
	Writer repository.ProductionWriter
}

func newBooks(p booksParams) (booksResult, error) {
	ctx := context.Background()
	base := Options{
		SpreadsheetID: p.Config.SheetID,
		Credentials: Credentials{
			ClientEmail: p.Config.GoogleClientEmail,
			PrivateKey:  p.Config.GooglePrivateKey,
		},
		Endpoint: p.Config.SheetsEndpoint,
	}

	readOpts := base
	readOpts.Scope = ScopeReadOnly
	reader, err := NewSheetsGateway(ctx, readOpts)
	if err != nil {
		return booksResult{}, err
	}

	writeOpts := base
	writeOpts.Scope = ScopeReadWrite
	writer, err := NewSheetsGateway(ctx, writeOpts)
	if err != nil {
		return booksResult{}, err
	}

	logger := p.Logger.With(slog.String("component", "ledger"))
	return booksResult{
		Reader: NewBook(reader, p.Config.SheetName, logger),
		Writer: NewBook(writer, p.Config.SheetName, logger),
	}, nil
}
