package repository

import (
	"context"

	"github.com/rewardly/giftvault/internal/domain/model"
)

// GiftRepository provides read access to the gift catalog.
type GiftRepository interface {
	Create(ctx context.Context, title string, points int64) (*model.Gift, error)
	GetByID(ctx context.Context, id int64) (*model.Gift, error)
}
