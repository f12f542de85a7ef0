package usecase

import (
	"context"

	"github.com/rewardly/giftvault/internal/domain/model"
	"github.com/rewardly/giftvault/internal/domain/repository"
)

// LedgerUseCase exposes the points transaction history.
type LedgerUseCase struct {
	ledger repository.LedgerRepository
}

// NewLedgerUseCase constructs LedgerUseCase.
func NewLedgerUseCase(ledger repository.LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledger: ledger}
}

// History returns a person's ledger entries, newest first.
func (u *LedgerUseCase) History(ctx context.Context, personID int64) ([]model.LedgerEntry, error) {
	return u.ledger.ListByPerson(ctx, personID)
}
