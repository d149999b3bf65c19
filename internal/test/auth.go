package test

import (
	"errors"
	"time"

	pkgAuth "github.com/polkiloo/fulfillsync/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied code.
func (h HasherStub) Hash(code string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(code)
	}
	return "hash:" + code, nil
}

// Compare validates code against stored hash.
func (h HasherStub) Compare(hash string, code string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, code)
	}
	if hash != "hash:"+code {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides. By default
// tokens are "token:<subject>".
type StrategyStub struct {
	IssueFn   func(string) (string, time.Time, error)
	ParseFn   func(string) (string, error)
	ExpiresAt time.Time
	NameVal   string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(subject string) (string, time.Time, error) {
	if s.IssueFn != nil {
		return s.IssueFn(subject)
	}
	return "token:" + subject, s.ExpiresAt, nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	const prefix = "token:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", pkgAuth.ErrInvalidToken
	}
	return token[len(prefix):], nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

var _ pkgAuth.CodeHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
