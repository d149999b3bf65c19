package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/fulfillsync/internal/domain/model"
)

// ChallengeRepository persists email verification challenges.
type ChallengeRepository interface {
	Create(ctx context.Context, challenge model.Challenge) error
	Get(ctx context.Context, id uuid.UUID) (*model.Challenge, error)
	// RecordAttempt increments the attempt counter of a live challenge only
	// while it is below limit. It returns ErrChallengeExhausted otherwise.
	RecordAttempt(ctx context.Context, id uuid.UUID, limit int) (int, error)
	Consume(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
