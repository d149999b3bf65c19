package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ChallengePurger exposes the subset of application functionality required by the sweeper.
type ChallengePurger interface {
	PurgeExpiredChallenges(ctx context.Context) (int64, error)
}

// ChallengeSweeper periodically deletes verification challenges that can no longer be confirmed.
type ChallengeSweeper struct {
	purger   ChallengePurger
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewChallengeSweeper constructs the sweeper. A non-positive interval falls back to five minutes.
func NewChallengeSweeper(purger ChallengePurger, interval time.Duration, logger *slog.Logger) *ChallengeSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &ChallengeSweeper{
		purger:   purger,
		interval: interval,
		logger:   logger,
	}
}

// Start launches background sweeping. Calling Start twice without Stop is a no-op.
func (s *ChallengeSweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop cancels the sweep loop and waits for it to exit.
func (s *ChallengeSweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *ChallengeSweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ChallengeSweeper) sweep(ctx context.Context) {
	removed, err := s.purger.PurgeExpiredChallenges(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("purge expired challenges failed", slog.String("error", err.Error()))
		}
		return
	}
	if removed > 0 {
		s.logger.Info("expired challenges purged", slog.Int64("removed", removed))
	}
}
