package repository

import (
	"context"

	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// ProductionReader finds the ledger row matching any of the given order ids.
type ProductionReader interface {
	Lookup(ctx context.Context, orderIDs ...string) (*model.ProductionRecord, error)
}

// ProductionWriter marks a ledger row paid and returns its row number.
type ProductionWriter interface {
	MarkPaid(ctx context.Context, orderID string) (int, error)
}
