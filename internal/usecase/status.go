package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
	"github.com/polkiloo/fulfillsync/internal/pkg/privacy"
)

// TokenParser returns the order key a verification token is bound to.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// StatusUseCase aggregates commerce, ledger and SLA state into one status.
type StatusUseCase struct {
	locator *OrderLocator
	ledger  repository.ProductionReader
	sla     TurnaroundTable
	tokens  TokenParser
	logger  *slog.Logger
	now     func() time.Time
}

// NewStatusUseCase constructs StatusUseCase.
func NewStatusUseCase(locator *OrderLocator, ledger repository.ProductionReader, sla TurnaroundTable, tokens TokenParser, logger *slog.Logger) *StatusUseCase {
	return &StatusUseCase{locator: locator, ledger: ledger, sla: sla, tokens: tokens, logger: logger, now: time.Now}
}

// Status resolves query to an order and builds its aggregated status. The
// artifact links and the full email are disclosed only when token proves
// control of the order's email.
func (u *StatusUseCase) Status(ctx context.Context, query, token string) (*model.AggregatedStatus, error) {
	order, err := u.locator.Locate(ctx, query)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotFound) && !errors.Is(err, domainErrors.ErrInvalidQuery) {
			u.logger.Error("commerce lookup failed", slog.Any("error", err))
		}
		return nil, err
	}

	status := &model.AggregatedStatus{
		Order:                *order,
		IsFulfilled:          order.FulfillmentState.IsFulfilled(),
		ExpectedCompletionAt: u.sla.ExpectedCompletion(*order),
		Verified:             u.verified(token, order.Key()),
	}

	candidates := []string{order.Key(), order.Name, strconv.FormatInt(order.ID, 10), query}
	record, err := u.ledger.Lookup(ctx, candidates...)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrNotFound) {
			status.Warnings = append(status.Warnings, model.WarningLedgerUnavailable)
			u.logger.Warn("ledger lookup failed", slog.String("order_id", order.Key()), slog.Any("error", err))
		}
		record = nil
	}

	downloadable := record != nil && record.Downloadable()
	status.IsArtifactReady = downloadable
	status.IsPaid = record != nil && record.Paid
	status.Label = DeriveLabel(status.IsFulfilled, downloadable, order.CreatedAt, status.ExpectedCompletionAt, u.now())

	if status.Verified {
		status.Email = order.CustomerEmail
		if status.Label == model.StatusReadyForDownload {
			status.ArtifactLinks = record.ArtifactLinks
		}
	} else {
		status.Email = privacy.MaskEmail(order.CustomerEmail)
	}
	status.Order.CustomerEmail = status.Email

	return status, nil
}

func (u *StatusUseCase) verified(token, orderKey string) bool {
	if token == "" || u.tokens == nil {
		return false
	}
	subject, err := u.tokens.ParseToken(token)
	if err != nil {
		u.logger.Debug("verification token rejected", slog.Any("error", err))
		return false
	}
	return subject != "" && subject == orderKey
}
