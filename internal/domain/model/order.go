package model

import (
	"strings"
	"time"
)

// FulfillmentState describes shipping state reported by the commerce platform.
type FulfillmentState string

const (
	FulfillmentUnfulfilled FulfillmentState = "unfulfilled"
	FulfillmentFulfilled   FulfillmentState = "fulfilled"
)

// IsFulfilled compares the state case-insensitively.
func (s FulfillmentState) IsFulfilled() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(FulfillmentFulfilled))
}

// LineItem is a single purchased variant.
type LineItem struct {
	VariantID int64
	Title     string
	Quantity  int
}

// Order describes a purchase owned by the commerce platform.
type Order struct {
	ID               int64
	Name             string
	Amount           string
	Currency         string
	CustomerEmail    string
	CreatedAt        time.Time
	FulfillmentState FulfillmentState
	LineItems        []LineItem
}

// Key returns the merchant order id without the conventional "#" prefix.
func (o Order) Key() string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(o.Name), "#"))
}

// VariantIDs returns line item variants in order.
func (o Order) VariantIDs() []int64 {
	ids := make([]int64, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		ids = append(ids, item.VariantID)
	}
	return ids
}
