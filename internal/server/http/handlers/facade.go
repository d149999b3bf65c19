package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// WebhookFacade ingests payment gateway deliveries.
type WebhookFacade interface {
	IngestPayment(ctx context.Context, rawBody []byte, headers http.Header) (*model.WebhookResult, error)
}

// StatusFacade answers order status queries.
type StatusFacade interface {
	OrderStatus(ctx context.Context, query, token string) (*model.AggregatedStatus, error)
}

// VerificationFacade runs the email verification flow.
type VerificationFacade interface {
	StartVerification(ctx context.Context, query string) (*model.IssuedChallenge, error)
	ConfirmVerification(ctx context.Context, id uuid.UUID, code string) (*model.VerificationToken, error)
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	WebhookFacade
	StatusFacade
	VerificationFacade
}

// Pinger reports whether backing storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
