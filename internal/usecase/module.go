package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fulfillsync/internal/adapter/mailer"
	"github.com/polkiloo/fulfillsync/internal/config"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
	pkgAuth "github.com/polkiloo/fulfillsync/internal/pkg/auth"
	"github.com/polkiloo/fulfillsync/internal/pkg/signature"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newPaymentVerifier,
	newTurnaroundTable,
	NewOrderLocator,
	NewWebhookUseCase,
	newStatusUseCase,
	newVerificationUseCase,
)

func newPaymentVerifier(cfg *config.Config) PaymentVerifier {
	return signature.NewVerifier(cfg.WebhookSecret, signature.Options{
		Mode:            cfg.SignatureMode,
		SignatureHeader: cfg.SignatureHeader,
		TimestampHeader: cfg.TimestampHeader,
		FlattenFields:   cfg.FlattenFields,
	})
}

func newTurnaroundTable(cfg *config.Config) TurnaroundTable {
	return NewTurnaroundTable(cfg.VariantTurnaround, cfg.DefaultTurnaround)
}

type statusParams struct {
	fx.In

	Locator *OrderLocator
	Ledger  repository.ProductionReader
	SLA     TurnaroundTable
	Tokens  pkgAuth.Strategy
	Logger  *slog.Logger
}

func newStatusUseCase(p statusParams) *StatusUseCase {
	return NewStatusUseCase(p.Locator, p.Ledger, p.SLA, p.Tokens, p.Logger)
}

type verificationParams struct {
	fx.In

	Config     *config.Config
	Locator    *OrderLocator
	Challenges repository.ChallengeRepository
	Hasher     pkgAuth.CodeHasher
	Tokens     pkgAuth.Strategy
	Sender     mailer.Sender
	Logger     *slog.Logger
}

func newVerificationUseCase(p verificationParams) *VerificationUseCase {
	return NewVerificationUseCase(p.Locator, p.Challenges, p.Hasher, p.Tokens, p.Sender, VerificationSettings{
		ChallengeTTL: p.Config.ChallengeTTL,
		MaxAttempts:  p.Config.ChallengeMaxAttempts,
	}, p.Logger)
}
