package repository

import (
	"context"

	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// OrderCatalog looks up orders on the commerce platform. Each method returns
// errors.ErrNotFound when nothing matches.
type OrderCatalog interface {
	SearchByName(ctx context.Context, name string) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	SearchByEmail(ctx context.Context, email string) (*model.Order, error)
}
