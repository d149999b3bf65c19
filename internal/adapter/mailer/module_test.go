package mailer

import (
	"testing"

	"github.com/polkiloo/fulfillsync/internal/config"
)

func TestNewSenderFallsBackToLog(t *testing.T) {
	sender, err := newSender(senderParams{Config: &config.Config{}, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*LogSender); !ok {
		t.Fatalf("expected log sender, got %T", sender)
	}
}

func TestNewSenderUsesRelay(t *testing.T) {
	cfg := &config.Config{MailRelayURL: "https://relay.example.com/send", MailFrom: "orders@shop.test"}
	sender, err := newSender(senderParams{Config: cfg, Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := sender.(*RelayClient); !ok {
		t.Fatalf("expected relay client, got %T", sender)
	}
}
