package model

// WebhookStage is the furthest state a delivery reached.
type WebhookStage string

const (
	StageReceived      WebhookStage = "received"
	StageVerified      WebhookStage = "verified"
	StageParsed        WebhookStage = "parsed"
	StageResolved      WebhookStage = "resolved"
	StageLedgerUpdated WebhookStage = "ledger_updated"
)

// WebhookOutcome is reported back to the payment gateway on success.
type WebhookOutcome string

const (
	OutcomeProcessed WebhookOutcome = "processed"
	OutcomeIgnored   WebhookOutcome = "ignored"
	OutcomeUnmatched WebhookOutcome = "unmatched"
	OutcomeDeferred  WebhookOutcome = "deferred"
)

// WebhookResult describes an acknowledged delivery.
type WebhookResult struct {
	Outcome     WebhookOutcome
	Stage       WebhookStage
	Event       *PaymentEvent
	BaseOrderID string
	Row         int
}
