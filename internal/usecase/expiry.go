package usecase

import (
	"context"
	"log/slog"

	"github.com/rewardly/giftvault/internal/domain/repository"
)

// ExpiryUseCase applies expiry transitions. The watcher and the sweeper both
// funnel through it, so every mark is a guarded one-way flip that stays a
// no-op once a redemption is terminal.
type ExpiryUseCase struct {
	redemptions repository.RedemptionRepository
	ttl         repository.TTLRecordStore
	logger      *slog.Logger
}

// NewExpiryUseCase constructs ExpiryUseCase.
func NewExpiryUseCase(redemptions repository.RedemptionRepository, ttl repository.TTLRecordStore, logger *slog.Logger) *ExpiryUseCase {
	return &ExpiryUseCase{redemptions: redemptions, ttl: ttl, logger: logger}
}

// MarkExpired flips a single redemption to expired. Applying it twice, or
// concurrently from the watcher and the sweeper, yields the same state.
func (u *ExpiryUseCase) MarkExpired(ctx context.Context, id int64) error {
	marked, err := u.redemptions.MarkExpired(ctx, id)
	if err != nil {
		return err
	}
	if marked {
		u.logger.Info("redemption expired", slog.Int64("redemption_id", id))
	}
	return nil
}

// MarkExpiredBatch flips a set of redemptions and reports how many actually
// transitioned.
func (u *ExpiryUseCase) MarkExpiredBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	marked, err := u.redemptions.MarkExpiredBatch(ctx, ids)
	if err != nil {
		return 0, err
	}
	if marked > 0 {
		u.logger.Info("redemptions expired by sweep", slog.Int64("count", marked))
	}
	return marked, nil
}

// PendingIDs lists redemptions still eligible for expiry.
func (u *ExpiryUseCase) PendingIDs(ctx context.Context) ([]int64, error) {
	return u.redemptions.ListPendingIDs(ctx)
}

// AliveTTLIDs lists redemptions whose expiry records still exist.
func (u *ExpiryUseCase) AliveTTLIDs(ctx context.Context) ([]int64, error) {
	return u.ttl.ListIDs(ctx)
}
