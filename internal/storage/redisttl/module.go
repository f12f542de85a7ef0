package redisttl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/rewardly/giftvault/internal/config"
	"github.com/rewardly/giftvault/internal/domain/repository"
	"github.com/rewardly/giftvault/internal/watcher"
)

// Module wires the Redis-backed TTL record store.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(
		func(s *Store) repository.TTLRecordStore { return s },
		func(s *Store) watcher.ExpiryStream { return s },
	),
	fx.Invoke(registerLifecycle),
)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (*Store, error) {
	return New(p.Ctx, p.Config.RedisAddress, p.Config.RedisPassword, p.Config.RedisDB, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, store *Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
}
