package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewRelayClientValidatesURL(t *testing.T) {
	if _, err := NewRelayClient("://bad", "", "", 0, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewRelayClient("/relative", "", "", 0, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestRelayClientSend(t *testing.T) {
	var got relayRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer relay-token" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client, err := NewRelayClient(srv.URL+"/send", "relay-token", "orders@shop.test", time.Second, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := Message{To: "jane@example.com", Subject: "Your code", Text: "123456"}
	if err := client.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.From != "orders@shop.test" || got.To != msg.To || got.Subject != msg.Subject || got.Text != msg.Text {
		t.Fatalf("unexpected relay payload %+v", got)
	}
}

func TestRelayClientSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewRelayClient(srv.URL, "", "", time.Second, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.Send(context.Background(), Message{To: "a@b.c"}); !errors.Is(err, domainErrors.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestLogSenderMasksRecipientAndOmitsBody(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	msg := Message{To: "jane@example.com", Subject: "Your verification code", Text: "Your code is 482913."}
	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(buf.String(), "482913") {
		t.Fatalf("expected message body to stay out of the log, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Fatalf("expected warning level entry, got %s", buf.String())
	}
	if strings.Contains(buf.String(), "jane@example.com") {
		t.Fatalf("expected recipient to be masked, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "j***@example.com") {
		t.Fatalf("expected masked recipient in log, got %s", buf.String())
	}
}
