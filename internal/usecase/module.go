package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/rewardly/giftvault/internal/config"
	"github.com/rewardly/giftvault/internal/domain/repository"
	"github.com/rewardly/giftvault/internal/pkg/code"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newRedemptionUseCase,
	NewExpiryUseCase,
	NewLedgerUseCase,
)

type redemptionParams struct {
	fx.In

	Persons     repository.PersonRepository
	Gifts       repository.GiftRepository
	Redemptions repository.RedemptionRepository
	Ledger      repository.LedgerRepository
	TTL         repository.TTLRecordStore
	Notifier    Notifier
	Codes       code.Generator
	Config      *config.Config
	Logger      *slog.Logger
}

func newRedemptionUseCase(p redemptionParams) *RedemptionUseCase {
	return NewRedemptionUseCase(
		p.Persons,
		p.Gifts,
		p.Redemptions,
		p.Ledger,
		p.TTL,
		p.Notifier,
		p.Codes,
		p.Config.ClaimWindow,
		p.Logger,
	)
}
