package dto

import "time"

// StatusResponse is the client-facing projection of an aggregated order status.
type StatusResponse struct {
	IsFulfilled          bool          `json:"isFulfilled"`
	IsArtifactReady      bool          `json:"isArtifactReady"`
	ArtifactLink         *string       `json:"artifactLink"`
	ArtifactLinks        []string      `json:"artifactLinks"`
	IsPaid               bool          `json:"isPaid"`
	Verified             bool          `json:"verified"`
	Email                string        `json:"email"`
	ExpectedCompletionAt time.Time     `json:"expectedCompletionAt"`
	StatusLabel          string        `json:"statusLabel"`
	Warnings             []string      `json:"warnings,omitempty"`
	Order                OrderResponse `json:"order"`
}

// OrderResponse echoes commerce order metadata.
type OrderResponse struct {
	Name              string             `json:"name"`
	ID                int64              `json:"id"`
	CreatedAt         time.Time          `json:"created_at"`
	FulfillmentStatus string             `json:"fulfillment_status"`
	Email             string             `json:"email"`
	LineItems         []LineItemResponse `json:"line_items"`
}

// LineItemResponse identifies a purchased variant.
type LineItemResponse struct {
	VariantID int64 `json:"variant_id"`
}
