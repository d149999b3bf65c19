package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/fulfillsync/internal/adapter/mailer"
	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
	pkgAuth "github.com/polkiloo/fulfillsync/internal/pkg/auth"
	"github.com/polkiloo/fulfillsync/internal/pkg/privacy"
)

// VerificationSettings bounds the lifetime of verification challenges.
type VerificationSettings struct {
	ChallengeTTL time.Duration
	MaxAttempts  int
}

// VerificationUseCase proves that a caller controls the email registered on an order.
type VerificationUseCase struct {
	locator    *OrderLocator
	challenges repository.ChallengeRepository
	hasher     pkgAuth.CodeHasher
	tokens     pkgAuth.Strategy
	sender     mailer.Sender
	settings   VerificationSettings
	logger     *slog.Logger
	now        func() time.Time
	newCode    func() (string, error)
}

// NewVerificationUseCase constructs VerificationUseCase.
func NewVerificationUseCase(
	locator *OrderLocator,
	challenges repository.ChallengeRepository,
	hasher pkgAuth.CodeHasher,
	tokens pkgAuth.Strategy,
	sender mailer.Sender,
	settings VerificationSettings,
	logger *slog.Logger,
) *VerificationUseCase {
	if settings.ChallengeTTL <= 0 {
		settings.ChallengeTTL = 10 * time.Minute
	}
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = 5
	}
	return &VerificationUseCase{
		locator:    locator,
		challenges: challenges,
		hasher:     hasher,
		tokens:     tokens,
		sender:     sender,
		settings:   settings,
		logger:     logger,
		now:        time.Now,
		newCode:    func() (string, error) { return pkgAuth.GenerateCode(pkgAuth.CodeLength) },
	}
}

// Start sends a one-time code to the email registered on the order matching query.
func (u *VerificationUseCase) Start(ctx context.Context, query string) (*model.IssuedChallenge, error) {
	order, err := u.locator.Locate(ctx, query)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(order.CustomerEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: order has no registered email", domainErrors.ErrNotFound)
	}

	code, err := u.newCode()
	if err != nil {
		return nil, err
	}
	hash, err := u.hasher.Hash(code)
	if err != nil {
		return nil, err
	}

	now := u.now()
	challenge := model.Challenge{
		ID:        uuid.New(),
		OrderKey:  order.Key(),
		Email:     email,
		CodeHash:  hash,
		ExpiresAt: now.Add(u.settings.ChallengeTTL),
		CreatedAt: now,
	}
	if err := u.challenges.Create(ctx, challenge); err != nil {
		return nil, err
	}

	msg := mailer.Message{
		To:      email,
		Subject: fmt.Sprintf("Your verification code for order %s", order.Name),
		Text: fmt.Sprintf("Your code is %s. It expires in %d minutes.",
			code, int(u.settings.ChallengeTTL.Round(time.Minute)/time.Minute)),
	}
	if err := u.sender.Send(ctx, msg); err != nil {
		u.logger.Error("verification code not sent", slog.String("order_id", order.Key()), slog.Any("error", err))
		if !errors.Is(err, domainErrors.ErrUpstream) {
			err = domainErrors.Upstream("mailer", err)
		}
		return nil, err
	}

	masked := privacy.MaskEmail(email)
	u.logger.Info("verification challenge issued",
		slog.String("order_id", order.Key()),
		slog.String("email", masked),
		slog.String("challenge_id", challenge.ID.String()),
	)
	return &model.IssuedChallenge{ID: challenge.ID, MaskedEmail: masked, ExpiresAt: challenge.ExpiresAt}, nil
}

// Confirm checks code against challenge id and issues a token bound to the order.
func (u *VerificationUseCase) Confirm(ctx context.Context, id uuid.UUID, code string) (*model.VerificationToken, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domainErrors.ErrInvalidCode
	}

	challenge, err := u.challenges.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := u.now()
	if challenge.ConsumedAt != nil || challenge.Expired(now) {
		return nil, domainErrors.ErrChallengeExpired
	}
	if challenge.Attempts >= u.settings.MaxAttempts {
		return nil, domainErrors.ErrChallengeExhausted
	}

	attempts, err := u.challenges.RecordAttempt(ctx, id, u.settings.MaxAttempts)
	if err != nil {
		return nil, err
	}
	if attempts > u.settings.MaxAttempts {
		return nil, domainErrors.ErrChallengeExhausted
	}

	if err := u.hasher.Compare(challenge.CodeHash, code); err != nil {
		u.logger.Warn("verification code mismatch",
			slog.String("challenge_id", id.String()),
			slog.Int("attempts", attempts),
		)
		if attempts >= u.settings.MaxAttempts {
			return nil, domainErrors.ErrChallengeExhausted
		}
		return nil, domainErrors.ErrInvalidCode
	}

	if err := u.challenges.Consume(ctx, id, now); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrChallengeExpired
		}
		return nil, err
	}

	token, expiresAt, err := u.tokens.IssueToken(challenge.OrderKey)
	if err != nil {
		return nil, err
	}
	u.logger.Info("verification confirmed", slog.String("order_id", challenge.OrderKey))
	return &model.VerificationToken{Token: token, OrderKey: challenge.OrderKey, ExpiresAt: expiresAt}, nil
}

// PurgeExpired removes challenges that can no longer be confirmed.
func (u *VerificationUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	return u.challenges.DeleteExpired(ctx, u.now())
}
