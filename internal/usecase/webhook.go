package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
	"github.com/polkiloo/fulfillsync/internal/pkg/orderid"
)

// PaymentVerifier authenticates and parses a raw webhook delivery.
type PaymentVerifier interface {
	Verify(rawBody []byte, headers http.Header) (*model.PaymentEvent, error)
}

// WebhookUseCase verifies payment webhooks and marks ledger rows paid.
type WebhookUseCase struct {
	verifier PaymentVerifier
	ledger   repository.ProductionWriter
	logger   *slog.Logger
	now      func() time.Time
}

// NewWebhookUseCase constructs WebhookUseCase.
func NewWebhookUseCase(verifier PaymentVerifier, ledger repository.ProductionWriter, logger *slog.Logger) *WebhookUseCase {
	return &WebhookUseCase{verifier: verifier, ledger: ledger, logger: logger, now: time.Now}
}

// Ingest runs one delivery through the pipeline. A returned error means the
// delivery is rejected; ledger problems never produce an error once the
// signature has been accepted.
func (u *WebhookUseCase) Ingest(ctx context.Context, rawBody []byte, headers http.Header) (*model.WebhookResult, error) {
	event, err := u.verifier.Verify(rawBody, headers)
	if err != nil {
		stage := model.StageReceived
		if errors.Is(err, domainErrors.ErrBadPayload) {
			stage = model.StageVerified
		}
		u.logger.Warn("webhook rejected", slog.String("stage", string(stage)), slog.Any("error", err))
		return nil, err
	}
	event.ReceivedAt = u.now()

	result := &model.WebhookResult{Stage: model.StageParsed, Event: event}
	if !event.Succeeded() {
		result.Outcome = model.OutcomeIgnored
		u.logger.Info("webhook ignored",
			slog.String("order_id", event.CompositeOrderID),
			slog.String("transaction_status", string(event.TransactionStatus)),
		)
		return result, nil
	}

	base, err := orderid.Resolve(event.CompositeOrderID)
	if err != nil {
		u.logger.Warn("webhook rejected", slog.String("stage", string(model.StageParsed)), slog.Any("error", err))
		return nil, err
	}
	result.Stage = model.StageResolved
	result.BaseOrderID = base

	row, err := u.ledger.MarkPaid(ctx, base)
	switch {
	case err == nil:
		result.Stage = model.StageLedgerUpdated
		result.Outcome = model.OutcomeProcessed
		result.Row = row
		u.logger.Info("webhook processed",
			slog.String("order_id", base),
			slog.String("transaction_id", event.TransactionID),
			slog.Int("row", row),
		)
	case errors.Is(err, domainErrors.ErrNotFound):
		result.Outcome = model.OutcomeUnmatched
		u.logger.Warn("order not found in ledger", slog.String("order_id", base), slog.String("stage", string(model.StageResolved)))
	default:
		result.Outcome = model.OutcomeDeferred
		u.logger.Error("ledger update failed", slog.String("order_id", base), slog.String("stage", string(model.StageResolved)), slog.Any("error", err))
	}
	return result, nil
}
