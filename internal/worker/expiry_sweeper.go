package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SweepFacade exposes the subset of application functionality required by the sweeper.
type SweepFacade interface {
	PendingRedemptionIDs(ctx context.Context) ([]int64, error)
	AliveTTLIDs(ctx context.Context) ([]int64, error)
	MarkExpiredBatch(ctx context.Context, ids []int64) (int64, error)
}

// ExpirySweeper periodically reconciles redemptions against their expiry
// records. A redemption counts as expired purely because its record is gone,
// so the sweep re-derives the same predicate the watcher reacts to and covers
// any events the watcher missed.
type ExpirySweeper struct {
	facade   SweepFacade
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewExpirySweeper constructs the sweeper.
func NewExpirySweeper(facade SweepFacade, interval time.Duration, logger *slog.Logger) *ExpirySweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ExpirySweeper{facade: facade, interval: interval, logger: logger}
}

// Start launches the periodic sweep loop.
func (s *ExpirySweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop waits for the loop to finish.
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *ExpirySweeper) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("expiry sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Sweep runs one reconciliation pass: every redemption still pending whose
// expiry record no longer exists is marked expired. The pass is idempotent;
// running it twice, or concurrently with the watcher, marks nothing extra.
func (s *ExpirySweeper) Sweep(ctx context.Context) error {
	pending, err := s.facade.PendingRedemptionIDs(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	alive, err := s.facade.AliveTTLIDs(ctx)
	if err != nil {
		return err
	}

	aliveSet := make(map[int64]struct{}, len(alive))
	for _, id := range alive {
		aliveSet[id] = struct{}{}
	}

	expired := make([]int64, 0, len(pending))
	for _, id := range pending {
		if _, ok := aliveSet[id]; !ok {
			expired = append(expired, id)
		}
	}
	if len(expired) == 0 {
		return nil
	}

	marked, err := s.facade.MarkExpiredBatch(ctx, expired)
	if err != nil {
		return err
	}
	s.logger.Info("expiry sweep finished",
		slog.Int("candidates", len(expired)),
		slog.Int64("marked", marked),
	)
	return nil
}
