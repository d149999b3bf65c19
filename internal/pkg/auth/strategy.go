package auth

import "time"

// Strategy issues and validates tokens bound to a subject (an order key).
type Strategy interface {
	IssueToken(subject string) (string, time.Time, error)
	ParseToken(token string) (string, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
