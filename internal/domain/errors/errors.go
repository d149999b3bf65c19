package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrBadPayload            = errors.New("bad payload")
	ErrVerifierMisconfigured = errors.New("signature verifier misconfigured")
	ErrInvalidOrderID        = errors.New("invalid order id")
	ErrInvalidQuery          = errors.New("invalid query")
	ErrNotFound              = errors.New("not found")
	ErrUpstream              = errors.New("upstream unavailable")
	ErrInvalidCode           = errors.New("invalid verification code")
	ErrChallengeExpired      = errors.New("verification challenge expired")
	ErrChallengeExhausted    = errors.New("verification attempts exhausted")
)

// UpstreamError reports a failure of one of the external systems of record.
type UpstreamError struct {
	Source string
	Err    error
}

// Upstream wraps err as an UpstreamError attributed to source.
func Upstream(source string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Source: source, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUpstream) match any UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
