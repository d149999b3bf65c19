package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/fulfillsync/internal/adapter/mailer"
	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/pkg/signature"
	testhelpers "github.com/polkiloo/fulfillsync/internal/test"
	"github.com/polkiloo/fulfillsync/internal/usecase"
)

const facadeSecret = "whsec_facade"

type facadeFixture struct {
	facade     *Facade
	ledger     *testhelpers.LedgerStub
	challenges *testhelpers.ChallengeRepositoryStub
	verifier   *signature.Verifier
}

func newFacade() facadeFixture {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	order := model.Order{
		ID:               5550001,
		Name:             "#1042",
		CustomerEmail:    "jane@example.com",
		CreatedAt:        time.Now().Add(-time.Hour),
		FulfillmentState: model.FulfillmentUnfulfilled,
		LineItems:        []model.LineItem{{VariantID: 7}},
	}
	catalog := testhelpers.NewCatalogStub(order)
	ledger := testhelpers.NewLedgerStub(model.ProductionRecord{OrderID: "1042", ArtifactLinks: []string{"https://files/1042.mp3"}})
	challenges := testhelpers.NewChallengeRepositoryStub()

	verifier := signature.NewVerifier(facadeSecret, signature.Options{Mode: signature.ModeRawBody})
	locator := usecase.NewOrderLocator(catalog)
	tokens := testhelpers.StrategyStub{ExpiresAt: time.Now().Add(time.Hour)}
	hasher := testhelpers.HasherStub{CompareFn: func(hash, code string) error {
		if code != "000000" {
			return errors.New("mismatch")
		}
		return nil
	}}

	webhooks := usecase.NewWebhookUseCase(verifier, ledger, logger)
	status := usecase.NewStatusUseCase(locator, ledger, usecase.NewTurnaroundTable(map[int64]time.Duration{7: 48 * time.Hour}, 72*time.Hour), tokens, logger)
	verification := usecase.NewVerificationUseCase(locator, challenges, hasher, tokens, mailer.NewLogSender(logger), usecase.VerificationSettings{}, logger)

	return facadeFixture{
		facade:     NewFacade(webhooks, status, verification),
		ledger:     ledger,
		challenges: challenges,
		verifier:   verifier,
	}
}

func TestFacadeIngestPayment(t *testing.T) {
	f := newFacade()
	body := []byte(`{"event":"PAYMENT_SUCCESS_WEBHOOK","data":{"order":{"order_id":"1042_1700000000","transaction_status":"SUCCESS","transaction_id":"tx-1"}}}`)
	sig, err := f.verifier.Sign(body, "")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	headers := http.Header{}
	headers.Set(signature.DefaultSignatureHeader, sig)

	result, err := f.facade.IngestPayment(context.Background(), body, headers)
	if err != nil {
		t.Fatalf("ingest returned error: %v", err)
	}
	if result.Outcome != model.OutcomeProcessed || result.BaseOrderID != "1042" {
		t.Fatalf("unexpected result %+v", result)
	}
	if !f.ledger.Snapshot()["1042"].Paid {
		t.Fatal("expected ledger row to be marked paid")
	}

	headers.Set(signature.DefaultSignatureHeader, "bogus")
	if _, err := f.facade.IngestPayment(context.Background(), body, headers); !errors.Is(err, domainErrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestFacadeOrderStatus(t *testing.T) {
	f := newFacade()

	status, err := f.facade.OrderStatus(context.Background(), "1042", "")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if status.Verified || status.Email != "j***@example.com" {
		t.Fatalf("expected unverified masked status, got %+v", status)
	}
	if status.Label != model.StatusReceived {
		t.Fatalf("expected received label, got %s", status.Label)
	}

	if _, err := f.facade.OrderStatus(context.Background(), "9999", ""); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFacadeVerificationFlow(t *testing.T) {
	f := newFacade()
	ctx := context.Background()

	issued, err := f.facade.StartVerification(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("start returned error: %v", err)
	}
	if issued.MaskedEmail != "j***@example.com" {
		t.Fatalf("unexpected masked email %q", issued.MaskedEmail)
	}

	if _, err := f.facade.ConfirmVerification(ctx, issued.ID, "111111"); !errors.Is(err, domainErrors.ErrInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}

	token, err := f.facade.ConfirmVerification(ctx, issued.ID, "000000")
	if err != nil {
		t.Fatalf("confirm returned error: %v", err)
	}
	if token.OrderKey != "1042" || token.Token != "token:1042" {
		t.Fatalf("unexpected token %+v", token)
	}

	if _, err := f.facade.ConfirmVerification(ctx, uuid.New(), "000000"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for unknown challenge, got %v", err)
	}
}

func TestFacadePurgeExpiredChallenges(t *testing.T) {
	f := newFacade()
	past := time.Now().Add(-time.Minute)
	id := uuid.New()
	f.challenges.Challenges[id] = &model.Challenge{ID: id, ExpiresAt: past}

	removed, err := f.facade.PurgeExpiredChallenges(context.Background())
	if err != nil {
		t.Fatalf("purge returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected one challenge removed, got %d", removed)
	}
}
