package usecase

import (
	"time"

	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// TurnaroundTable maps product variants to their production turnaround.
type TurnaroundTable struct {
	byVariant map[int64]time.Duration
	largest   time.Duration
}

// NewTurnaroundTable builds a table. fallback is used only when the table is empty.
func NewTurnaroundTable(byVariant map[int64]time.Duration, fallback time.Duration) TurnaroundTable {
	table := TurnaroundTable{byVariant: make(map[int64]time.Duration, len(byVariant))}
	for variant, d := range byVariant {
		if d <= 0 {
			continue
		}
		table.byVariant[variant] = d
		if d > table.largest {
			table.largest = d
		}
	}
	if table.largest == 0 {
		table.largest = fallback
	}
	return table
}

// Turnaround returns the shortest turnaround among matched variants, or the
// largest tier when none match.
func (t TurnaroundTable) Turnaround(variants []int64) time.Duration {
	var best time.Duration
	for _, v := range variants {
		d, ok := t.byVariant[v]
		if !ok {
			continue
		}
		if best == 0 || d < best {
			best = d
		}
	}
	if best == 0 {
		return t.largest
	}
	return best
}

// ExpectedCompletion estimates when production of order should be done.
func (t TurnaroundTable) ExpectedCompletion(order model.Order) time.Time {
	return order.CreatedAt.Add(t.Turnaround(order.VariantIDs()))
}

// DeriveLabel picks the status label; the first matching rule wins.
func DeriveLabel(fulfilled, downloadable bool, createdAt, expected, now time.Time) model.StatusLabel {
	switch {
	case fulfilled && downloadable:
		return model.StatusReadyForDownload
	case fulfilled:
		return model.StatusDelivered
	case now.After(expected) && downloadable:
		return model.StatusReadyForDownload
	case now.After(expected):
		return model.StatusOverdueInProduction
	default:
		return progressStage(createdAt, expected, now)
	}
}

// progressStage buckets elapsed time of the SLA window into quartiles.
func progressStage(createdAt, expected, now time.Time) model.StatusLabel {
	window := expected.Sub(createdAt)
	if window <= 0 {
		return model.StatusFinalizing
	}
	fraction := float64(now.Sub(createdAt)) / float64(window)
	switch {
	case fraction < 0.25:
		return model.StatusReceived
	case fraction < 0.5:
		return model.StatusInProduction
	case fraction < 0.75:
		return model.StatusInReview
	default:
		return model.StatusFinalizing
	}
}
