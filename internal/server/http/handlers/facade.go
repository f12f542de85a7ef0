package handlers

import (
	"context"

	"github.com/rewardly/giftvault/internal/domain/model"
	"github.com/rewardly/giftvault/internal/domain/repository"
)

// RedemptionFacade encapsulates redemption operations exposed via HTTP.
type RedemptionFacade interface {
	CreateRedemption(ctx context.Context, personID, giftID int64) (*model.Redemption, error)
	FinalizeByCode(ctx context.Context, claimCode string, redeemerID *int64) (*model.Redemption, error)
	RedemptionByID(ctx context.Context, id int64) (*model.Redemption, error)
	Redemptions(ctx context.Context, filter repository.RedemptionFilter) ([]model.Redemption, error)
	DeleteRedemption(ctx context.Context, id int64) error
}

// LedgerFacade provides the points transaction history.
type LedgerFacade interface {
	LedgerHistory(ctx context.Context, personID int64) ([]model.LedgerEntry, error)
}

// GiftFacade aggregates the full set of operations used across handlers.
type GiftFacade interface {
	RedemptionFacade
	LedgerFacade
}

// HealthChecker verifies a backing service's connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
