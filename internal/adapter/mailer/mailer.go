package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/pkg/privacy"
)

const source = "mailer"

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Sender delivers messages to customers.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// RelayClient posts messages to an HTTP mail relay.
type RelayClient struct {
	endpoint   *url.URL
	token      string
	from       string
	httpClient *http.Client
	logger     *slog.Logger
}

type relayRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// NewRelayClient creates a relay client for an absolute endpoint URL.
func NewRelayClient(endpoint, token, from string, timeout time.Duration, logger *slog.Logger) (*RelayClient, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse mail relay url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("mail relay url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RelayClient{
		endpoint:   parsed,
		token:      token,
		from:       from,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Send delivers msg through the relay.
func (c *RelayClient) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(relayRequest{From: c.from, To: msg.To, Subject: msg.Subject, Text: msg.Text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return domainErrors.Upstream(source, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainErrors.Upstream(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("mail relay rejected message",
			slog.Int("status", resp.StatusCode),
			slog.String("to", privacy.MaskEmail(msg.To)),
			slog.String("body", string(body)),
		)
		return domainErrors.Upstream(source, fmt.Errorf("unexpected status: %s", resp.Status))
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender for environments without a relay.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send records that msg was dropped. The body may carry a one-time code and is never logged.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Warn("mail not delivered, relay disabled",
		slog.String("to", privacy.MaskEmail(msg.To)),
		slog.String("subject", msg.Subject),
	)
	return nil
}
