package test

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// WebhookFacadeStub provides controllable behaviour for the payment webhook endpoint.
type WebhookFacadeStub struct {
	IngestFn func(context.Context, []byte, http.Header) (*model.WebhookResult, error)
}

// IngestPayment delegates to provided function or reports a processed delivery.
func (s WebhookFacadeStub) IngestPayment(ctx context.Context, rawBody []byte, headers http.Header) (*model.WebhookResult, error) {
	if s.IngestFn != nil {
		return s.IngestFn(ctx, rawBody, headers)
	}
	return &model.WebhookResult{Outcome: model.OutcomeProcessed, Stage: model.StageLedgerUpdated, BaseOrderID: "1042", Row: 2}, nil
}

// StatusFacadeStub simulates status queries.
type StatusFacadeStub struct {
	StatusFn func(context.Context, string, string) (*model.AggregatedStatus, error)
}

// OrderStatus returns configured status or a minimal in-production one.
func (s StatusFacadeStub) OrderStatus(ctx context.Context, query, token string) (*model.AggregatedStatus, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, query, token)
	}
	return &model.AggregatedStatus{
		Order: model.Order{ID: 1, Name: "#" + query, CreatedAt: time.Unix(0, 0).UTC()},
		Label: model.StatusInProduction,
	}, nil
}

// VerificationFacadeStub simulates the email verification flow.
type VerificationFacadeStub struct {
	StartFn   func(context.Context, string) (*model.IssuedChallenge, error)
	ConfirmFn func(context.Context, uuid.UUID, string) (*model.VerificationToken, error)
}

// StartVerification returns configured challenge or a fresh one.
func (s VerificationFacadeStub) StartVerification(ctx context.Context, query string) (*model.IssuedChallenge, error) {
	if s.StartFn != nil {
		return s.StartFn(ctx, query)
	}
	return &model.IssuedChallenge{ID: uuid.New(), MaskedEmail: "j***@example.com", ExpiresAt: time.Unix(600, 0).UTC()}, nil
}

// ConfirmVerification returns configured token or "token:1042".
func (s VerificationFacadeStub) ConfirmVerification(ctx context.Context, id uuid.UUID, code string) (*model.VerificationToken, error) {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, id, code)
	}
	return &model.VerificationToken{Token: "token:1042", OrderKey: "1042", ExpiresAt: time.Unix(1800, 0).UTC()}, nil
}

// FacadeStub aggregates all stubs used across handlers.
type FacadeStub struct {
	WebhookFacadeStub
	StatusFacadeStub
	VerificationFacadeStub
}

// PingerStub reports configured connectivity.
type PingerStub struct {
	Err error
}

// Ping returns the configured error.
func (p PingerStub) Ping(context.Context) error {
	return p.Err
}

// PurgerStub counts sweeps and returns configured results.
type PurgerStub struct {
	Removed int64
	Err     error
	calls   atomic.Int32
}

// PurgeExpiredChallenges records the call.
func (p *PurgerStub) PurgeExpiredChallenges(context.Context) (int64, error) {
	p.calls.Add(1)
	if p.Err != nil {
		return 0, p.Err
	}
	return p.Removed, nil
}

// Calls returns how many sweeps happened.
func (p *PurgerStub) Calls() int {
	return int(p.calls.Load())
}
