package app

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/usecase"
)

// Facade is the single entry point the transport layer and workers talk to.
type Facade struct {
	webhooks     *usecase.WebhookUseCase
	status       *usecase.StatusUseCase
	verification *usecase.VerificationUseCase
}

func NewFacade(webhooks *usecase.WebhookUseCase, status *usecase.StatusUseCase, verification *usecase.VerificationUseCase) *Facade {
	return &Facade{webhooks: webhooks, status: status, verification: verification}
}

func (f *Facade) IngestPayment(ctx context.Context, rawBody []byte, headers http.Header) (*model.WebhookResult, error) {
	return f.webhooks.Ingest(ctx, rawBody, headers)
}

func (f *Facade) OrderStatus(ctx context.Context, query, token string) (*model.AggregatedStatus, error) {
	return f.status.Status(ctx, query, token)
}

func (f *Facade) StartVerification(ctx context.Context, query string) (*model.IssuedChallenge, error) {
	return f.verification.Start(ctx, query)
}

func (f *Facade) ConfirmVerification(ctx context.Context, id uuid.UUID, code string) (*model.VerificationToken, error) {
	return f.verification.Confirm(ctx, id, code)
}

func (f *Facade) PurgeExpiredChallenges(ctx context.Context) (int64, error) {
	return f.verification.PurgeExpired(ctx)
}
