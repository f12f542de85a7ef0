package app

import (
	"context"

	"github.com/rewardly/giftvault/internal/domain/model"
	"github.com/rewardly/giftvault/internal/domain/repository"
	"github.com/rewardly/giftvault/internal/usecase"
)

// GiftFacade aggregates the application use cases behind one surface consumed
// by the HTTP handlers, the expiry watcher and the sweeper.
type GiftFacade struct {
	redemptions *usecase.RedemptionUseCase
	expiry      *usecase.ExpiryUseCase
	ledger      *usecase.LedgerUseCase
}

// NewGiftFacade constructs GiftFacade.
func NewGiftFacade(redemptions *usecase.RedemptionUseCase, expiry *usecase.ExpiryUseCase, ledger *usecase.LedgerUseCase) *GiftFacade {
	return &GiftFacade{redemptions: redemptions, expiry: expiry, ledger: ledger}
}

func (f *GiftFacade) CreateRedemption(ctx context.Context, personID, giftID int64) (*model.Redemption, error) {
	return f.redemptions.Create(ctx, personID, giftID)
}

func (f *GiftFacade) FinalizeByCode(ctx context.Context, claimCode string, redeemerID *int64) (*model.Redemption, error) {
	return f.redemptions.FinalizeByCode(ctx, claimCode, redeemerID)
}

func (f *GiftFacade) RedemptionByID(ctx context.Context, id int64) (*model.Redemption, error) {
	return f.redemptions.GetByID(ctx, id)
}

func (f *GiftFacade) Redemptions(ctx context.Context, filter repository.RedemptionFilter) ([]model.Redemption, error) {
	return f.redemptions.List(ctx, filter)
}

func (f *GiftFacade) DeleteRedemption(ctx context.Context, id int64) error {
	return f.redemptions.Delete(ctx, id)
}

func (f *GiftFacade) MarkExpired(ctx context.Context, id int64) error {
	return f.expiry.MarkExpired(ctx, id)
}

func (f *GiftFacade) MarkExpiredBatch(ctx context.Context, ids []int64) (int64, error) {
	return f.expiry.MarkExpiredBatch(ctx, ids)
}

func (f *GiftFacade) PendingRedemptionIDs(ctx context.Context) ([]int64, error) {
	return f.expiry.PendingIDs(ctx)
}

func (f *GiftFacade) AliveTTLIDs(ctx context.Context) ([]int64, error) {
	return f.expiry.AliveTTLIDs(ctx)
}

func (f *GiftFacade) LedgerHistory(ctx context.Context, personID int64) ([]model.LedgerEntry, error) {
	return f.ledger.History(ctx, personID)
}
