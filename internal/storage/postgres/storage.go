package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
)

// pgxPool is the subset of *pgxpool.Pool the storage relies on.
type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type challengeRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("storage initialised")
	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Challenges returns the verification challenge repository.
func (s *Storage) Challenges() repository.ChallengeRepository {
	return &challengeRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS verification_challenges (
            id UUID PRIMARY KEY,
            order_key TEXT NOT NULL,
            email TEXT NOT NULL,
            code_hash TEXT NOT NULL,
            attempts INTEGER NOT NULL DEFAULT 0,
            expires_at TIMESTAMPTZ NOT NULL,
            consumed_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_challenges_expires ON verification_challenges(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_challenges_order ON verification_challenges(order_key, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// --- ChallengeRepository implementation ---

func (r *challengeRepository) Create(ctx context.Context, c model.Challenge) error {
	const query = `INSERT INTO verification_challenges (id, order_key, email, code_hash, expires_at, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.storage.pool.Exec(ctx, query, c.ID, c.OrderKey, c.Email, c.CodeHash, c.ExpiresAt, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create challenge: %w", err)
	}
	return nil
}

func (r *challengeRepository) Get(ctx context.Context, id uuid.UUID) (*model.Challenge, error) {
	const query = `SELECT id, order_key, email, code_hash, attempts, expires_at, consumed_at, created_at
                   FROM verification_challenges WHERE id=$1`
	var c model.Challenge
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.OrderKey, &c.Email, &c.CodeHash, &c.Attempts, &c.ExpiresAt, &c.ConsumedAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *challengeRepository) RecordAttempt(ctx context.Context, id uuid.UUID, limit int) (int, error) {
	const query = `UPDATE verification_challenges SET attempts = attempts + 1
                   WHERE id=$1 AND attempts < $2 AND consumed_at IS NULL RETURNING attempts`
	var attempts int
	if err := r.storage.pool.QueryRow(ctx, query, id, limit).Scan(&attempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domainErrors.ErrChallengeExhausted
		}
		return 0, err
	}
	return attempts, nil
}

func (r *challengeRepository) Consume(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE verification_challenges SET consumed_at=$2 WHERE id=$1 AND consumed_at IS NULL`
	tag, err := r.storage.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *challengeRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM verification_challenges WHERE expires_at <= $1`
	tag, err := r.storage.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
