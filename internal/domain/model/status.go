package model

import "time"

// StatusLabel is the client-facing production stage.
type StatusLabel string

const (
	StatusReadyForDownload    StatusLabel = "ready_for_download"
	StatusDelivered           StatusLabel = "delivered"
	StatusOverdueInProduction StatusLabel = "overdue_in_production"
	StatusReceived            StatusLabel = "received"
	StatusInProduction        StatusLabel = "in_production"
	StatusInReview            StatusLabel = "in_review"
	StatusFinalizing          StatusLabel = "finalizing"
)

// Warning codes attached to degraded status responses.
const (
	WarningLedgerUnavailable = "ledger_unavailable"
)

// AggregatedStatus merges commerce, ledger and SLA information for one order.
// ArtifactLinks is already gated and Email already masked when Verified is false.
type AggregatedStatus struct {
	Order                Order
	Email                string
	Verified             bool
	IsFulfilled          bool
	IsArtifactReady      bool
	IsPaid               bool
	ArtifactLinks        []string
	ExpectedCompletionAt time.Time
	Label                StatusLabel
	Warnings             []string
}

// ArtifactLink returns the primary disclosed link, or nil when gated.
func (s AggregatedStatus) ArtifactLink() *string {
	if len(s.ArtifactLinks) == 0 {
		return nil
	}
	link := s.ArtifactLinks[0]
	return &link
}
