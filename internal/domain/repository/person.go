package repository

import (
	"context"

	"github.com/rewardly/giftvault/internal/domain/model"
)

// PersonRepository describes persistence operations for loyalty program members.
type PersonRepository interface {
	Create(ctx context.Context, name string, points int64, fcmTokens []string) (*model.Person, error)
	GetByID(ctx context.Context, id int64) (*model.Person, error)
	AdjustPoints(ctx context.Context, id int64, delta int64) error
}
