package usecase

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
)

// OrderLocator resolves a free-text query to a commerce order.
type OrderLocator struct {
	catalog repository.OrderCatalog
}

// NewOrderLocator constructs OrderLocator.
func NewOrderLocator(catalog repository.OrderCatalog) *OrderLocator {
	return &OrderLocator{catalog: catalog}
}

type lookupStep struct {
	name  string
	apply bool
	run   func(context.Context) (*model.Order, error)
}

// Locate tries exact name, prefixed name, numeric id and email in that order.
// The first match wins; ErrNotFound is returned when every step misses.
func (l *OrderLocator) Locate(ctx context.Context, query string) (*model.Order, error) {
	query, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	id, numeric := numericID(query)
	email := looksLikeEmail(query)
	alternate := togglePrefix(query)

	steps := []lookupStep{
		{name: "name", apply: true, run: func(ctx context.Context) (*model.Order, error) {
			return l.catalog.SearchByName(ctx, query)
		}},
		{name: "prefixed name", apply: !email && alternate != "", run: func(ctx context.Context) (*model.Order, error) {
			return l.catalog.SearchByName(ctx, alternate)
		}},
		{name: "id", apply: numeric, run: func(ctx context.Context) (*model.Order, error) {
			return l.catalog.GetByID(ctx, id)
		}},
		{name: "email", apply: email, run: func(ctx context.Context) (*model.Order, error) {
			return l.catalog.SearchByEmail(ctx, query)
		}},
	}

	for _, step := range steps {
		if !step.apply {
			continue
		}
		order, err := step.run(ctx)
		switch {
		case err == nil && order != nil:
			return order, nil
		case err == nil, errors.Is(err, domainErrors.ErrNotFound):
			continue
		default:
			return nil, fmt.Errorf("lookup by %s: %w", step.name, err)
		}
	}
	return nil, domainErrors.ErrNotFound
}
