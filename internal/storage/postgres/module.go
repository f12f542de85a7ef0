package postgres

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/rewardly/giftvault/internal/config"
	"github.com/rewardly/giftvault/internal/domain/repository"
)

// Module wires PostgreSQL storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newStorage),
	fx.Provide(
		func(s *Storage) repository.PersonRepository { return s.Persons() },
		func(s *Storage) repository.GiftRepository { return s.Gifts() },
		func(s *Storage) repository.RedemptionRepository { return s.Redemptions() },
		func(s *Storage) repository.LedgerRepository { return s.Ledger() },
	),
	fx.Invoke(registerLifecycle),
)

type storageParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStorage(p storageParams) (*Storage, error) {
	return New(p.Ctx, p.Config.DatabaseURI, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, storage *Storage) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			storage.Close()
			return nil
		},
	})
}
