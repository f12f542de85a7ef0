package repository

import (
	"context"

	"github.com/rewardly/giftvault/internal/domain/model"
)

// LedgerRepository appends and lists immutable points transactions.
type LedgerRepository interface {
	Append(ctx context.Context, personID int64, direction model.LedgerDirection, amount int64, invoice *string, detail string) (*model.LedgerEntry, error)
	ListByPerson(ctx context.Context, personID int64) ([]model.LedgerEntry, error)
}
