package model

import (
	"time"

	"github.com/google/uuid"
)

// Challenge is a pending proof that the caller controls an order's email.
type Challenge struct {
	ID         uuid.UUID
	OrderKey   string
	Email      string
	CodeHash   string
	Attempts   int
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the challenge can no longer be confirmed at now.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// IssuedChallenge is returned to the caller after a code was sent.
type IssuedChallenge struct {
	ID          uuid.UUID
	MaskedEmail string
	ExpiresAt   time.Time
}

// VerificationToken proves control of the email registered on an order.
type VerificationToken struct {
	Token     string
	OrderKey  string
	ExpiresAt time.Time
}
