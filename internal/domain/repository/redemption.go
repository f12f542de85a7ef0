package repository

import (
	"context"

	"github.com/rewardly/giftvault/internal/domain/model"
)

// RedemptionFilter narrows redemption listings. Nil fields match everything.
type RedemptionFilter struct {
	PersonID *int64
	Status   *model.RedemptionStatus
	Expired  *bool
}

// RedemptionRepository describes persistence operations with redemptions.
type RedemptionRepository interface {
	Create(ctx context.Context, personID, giftID, points int64, claimCode string) (*model.Redemption, error)
	GetByID(ctx context.Context, id int64) (*model.Redemption, error)
	List(ctx context.Context, filter RedemptionFilter) ([]model.Redemption, error)
	ListPendingIDs(ctx context.Context) ([]int64, error)
	// MarkExpired flips the expiry flag and reports whether a transition
	// happened. Terminal redemptions are left untouched.
	MarkExpired(ctx context.Context, id int64) (bool, error)
	MarkExpiredBatch(ctx context.Context, ids []int64) (int64, error)
	// MarkRedeemed finalizes the redemption matching a claim code while it is
	// still pending and unexpired.
	MarkRedeemed(ctx context.Context, claimCode string, redeemerID *int64) (*model.Redemption, error)
	Delete(ctx context.Context, id int64) error
}
