package test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
	"github.com/polkiloo/fulfillsync/internal/domain/model"
	"github.com/polkiloo/fulfillsync/internal/domain/repository"
)

// CatalogStub serves orders from in-memory indexes and records every call.
type CatalogStub struct {
	ByName  map[string]*model.Order
	ByID    map[int64]*model.Order
	ByEmail map[string]*model.Order
	Err     error
	Calls   []string
}

// NewCatalogStub indexes orders by name, id and email.
func NewCatalogStub(orders ...model.Order) *CatalogStub {
	s := &CatalogStub{
		ByName:  make(map[string]*model.Order),
		ByID:    make(map[int64]*model.Order),
		ByEmail: make(map[string]*model.Order),
	}
	for i := range orders {
		o := orders[i]
		s.ByName[o.Name] = &o
		s.ByID[o.ID] = &o
		if o.CustomerEmail != "" {
			s.ByEmail[strings.ToLower(o.CustomerEmail)] = &o
		}
	}
	return s
}

// SearchByName returns the order named name.
func (s *CatalogStub) SearchByName(_ context.Context, name string) (*model.Order, error) {
	s.Calls = append(s.Calls, "name:"+name)
	if s.Err != nil {
		return nil, s.Err
	}
	return found(s.ByName[name])
}

// GetByID returns the order with id.
func (s *CatalogStub) GetByID(_ context.Context, id int64) (*model.Order, error) {
	s.Calls = append(s.Calls, "id")
	if s.Err != nil {
		return nil, s.Err
	}
	return found(s.ByID[id])
}

// SearchByEmail returns the order placed with email.
func (s *CatalogStub) SearchByEmail(_ context.Context, email string) (*model.Order, error) {
	s.Calls = append(s.Calls, "email:"+email)
	if s.Err != nil {
		return nil, s.Err
	}
	return found(s.ByEmail[strings.ToLower(email)])
}

func found(o *model.Order) (*model.Order, error) {
	if o == nil {
		return nil, domainErrors.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

// LedgerStub is an in-memory production ledger keyed by order id.
type LedgerStub struct {
	mu        sync.Mutex
	Records   map[string]*model.ProductionRecord
	LookupErr error
	MarkErr   error
	Writes    int
	Lookups   [][]string
}

// NewLedgerStub stores records by their order id; rows are numbered from 2.
func NewLedgerStub(records ...model.ProductionRecord) *LedgerStub {
	s := &LedgerStub{Records: make(map[string]*model.ProductionRecord)}
	for i := range records {
		r := records[i]
		if r.Row == 0 {
			r.Row = i + 2
		}
		s.Records[r.OrderID] = &r
	}
	return s
}

// Lookup returns the first record matching any id.
func (s *LedgerStub) Lookup(_ context.Context, orderIDs ...string) (*model.ProductionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups = append(s.Lookups, orderIDs)
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	for _, id := range orderIDs {
		if r, ok := s.Records[strings.TrimPrefix(strings.TrimSpace(id), "#")]; ok {
			copied := *r
			return &copied, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// MarkPaid sets the paid flag of orderID.
func (s *LedgerStub) MarkPaid(_ context.Context, orderID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MarkErr != nil {
		return 0, s.MarkErr
	}
	r, ok := s.Records[orderID]
	if !ok {
		return 0, domainErrors.ErrNotFound
	}
	r.Paid = true
	s.Writes++
	return r.Row, nil
}

// Snapshot returns a copy of all records for end-state comparisons.
func (s *LedgerStub) Snapshot() map[string]model.ProductionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.ProductionRecord, len(s.Records))
	for k, v := range s.Records {
		out[k] = *v
	}
	return out
}

// ChallengeRepositoryStub keeps challenges in memory.
type ChallengeRepositoryStub struct {
	mu         sync.Mutex
	Challenges map[uuid.UUID]*model.Challenge
	Err        error
}

// NewChallengeRepositoryStub constructs an empty store.
func NewChallengeRepositoryStub() *ChallengeRepositoryStub {
	return &ChallengeRepositoryStub{Challenges: make(map[uuid.UUID]*model.Challenge)}
}

// Create stores challenge.
func (s *ChallengeRepositoryStub) Create(_ context.Context, challenge model.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Challenges[challenge.ID] = &challenge
	return nil
}

// Get returns a copy of the stored challenge.
func (s *ChallengeRepositoryStub) Get(_ context.Context, id uuid.UUID) (*model.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	c, ok := s.Challenges[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

// RecordAttempt increments and returns the attempt counter while it is below
// limit and the challenge is unused.
func (s *ChallengeRepositoryStub) RecordAttempt(_ context.Context, id uuid.UUID, limit int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Challenges[id]
	if !ok || c.ConsumedAt != nil || c.Attempts >= limit {
		return 0, domainErrors.ErrChallengeExhausted
	}
	c.Attempts++
	return c.Attempts, nil
}

// Consume marks the challenge used unless it already was.
func (s *ChallengeRepositoryStub) Consume(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.Challenges[id]
	if !ok || c.ConsumedAt != nil {
		return domainErrors.ErrNotFound
	}
	c.ConsumedAt = &at
	return nil
}

// DeleteExpired drops challenges expiring at or before before.
func (s *ChallengeRepositoryStub) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	var n int64
	for id, c := range s.Challenges {
		if !c.ExpiresAt.After(before) {
			delete(s.Challenges, id)
			n++
		}
	}
	return n, nil
}

var (
	_ repository.OrderCatalog        = (*CatalogStub)(nil)
	_ repository.ProductionReader    = (*LedgerStub)(nil)
	_ repository.ProductionWriter    = (*LedgerStub)(nil)
	_ repository.ChallengeRepository = (*ChallengeRepositoryStub)(nil)
)
