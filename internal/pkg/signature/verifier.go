package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// Mode selects how the signing string is built from a delivery.
type Mode string

const (
	// ModeRawBody signs the raw body bytes.
	ModeRawBody Mode = "raw"
	// ModeTimestamp signs the timestamp header value followed by the raw body.
	ModeTimestamp Mode = "timestamp"
	// ModeFlattened signs the sorted values of the flattened event and order fields.
	ModeFlattened Mode = "flattened"
)

const (
	DefaultSignatureHeader = "x-webhook-signature"
	DefaultTimestampHeader = "x-webhook-timestamp"
)

// ParseMode converts configuration text into a Mode.
func ParseMode(value string) (Mode, error) {
	switch mode := Mode(strings.ToLower(strings.TrimSpace(value))); mode {
	case ModeRawBody, ModeTimestamp, ModeFlattened:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown signature mode %q", value)
	}
}

// Options tune header names and flattened-mode fields.
type Options struct {
	Mode            Mode
	SignatureHeader string
	TimestampHeader string
	// FlattenFields are always part of the flattened signing string, empty when absent.
	FlattenFields []string
}

// Verifier authenticates webhook deliveries with HMAC-SHA256 over a canonical signing string.
type Verifier struct {
	secret []byte
	opts   Options
}

// NewVerifier builds a Verifier. An empty secret is accepted here and reported on every Verify call.
func NewVerifier(secret string, opts Options) *Verifier {
	if opts.Mode == "" {
		opts.Mode = ModeTimestamp
	}
	if opts.SignatureHeader == "" {
		opts.SignatureHeader = DefaultSignatureHeader
	}
	if opts.TimestampHeader == "" {
		opts.TimestampHeader = DefaultTimestampHeader
	}
	return &Verifier{secret: []byte(secret), opts: opts}
}

// Mode returns the active canonicalization mode.
func (v *Verifier) Mode() Mode {
	return v.opts.Mode
}

// Verify checks the signature of rawBody and, on success, parses it.
// rawBody must be the exact bytes received on the wire.
func (v *Verifier) Verify(rawBody []byte, headers http.Header) (*model.PaymentEvent, error) {
	if len(v.secret) == 0 {
		return nil, domainErrors.ErrVerifierMisconfigured
	}

	received := strings.TrimSpace(headers.Get(v.opts.SignatureHeader))
	if received == "" {
		return nil, fmt.Errorf("%w: missing %s header", domainErrors.ErrUnauthorized, v.opts.SignatureHeader)
	}

	timestamp := strings.TrimSpace(headers.Get(v.opts.TimestampHeader))
	if v.opts.Mode == ModeTimestamp && timestamp == "" {
		return nil, fmt.Errorf("%w: missing %s header", domainErrors.ErrUnauthorized, v.opts.TimestampHeader)
	}

	expected, err := v.Sign(rawBody, timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrUnauthorized, err)
	}
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return nil, fmt.Errorf("%w: signature mismatch", domainErrors.ErrUnauthorized)
	}

	return ParsePayload(rawBody)
}

// Sign computes the base64 signature of a delivery in the configured mode.
func (v *Verifier) Sign(rawBody []byte, timestamp string) (string, error) {
	if len(v.secret) == 0 {
		return "", domainErrors.ErrVerifierMisconfigured
	}
	payload, err := v.signingString(rawBody, timestamp)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

func (v *Verifier) signingString(rawBody []byte, timestamp string) ([]byte, error) {
	switch v.opts.Mode {
	case ModeRawBody:
		return rawBody, nil
	case ModeTimestamp:
		out := make([]byte, 0, len(timestamp)+len(rawBody))
		out = append(out, timestamp...)
		return append(out, rawBody...), nil
	case ModeFlattened:
		flat, err := Flatten(rawBody, v.opts.FlattenFields)
		if err != nil {
			return nil, err
		}
		return []byte(Concatenate(flat)), nil
	default:
		return nil, fmt.Errorf("unsupported signature mode %q", v.opts.Mode)
	}
}
