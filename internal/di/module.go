package di

import (
	"go.uber.org/fx"

	"github.com/rewardly/giftvault/internal/adapter/push"
	"github.com/rewardly/giftvault/internal/app"
	"github.com/rewardly/giftvault/internal/config"
	"github.com/rewardly/giftvault/internal/logger"
	"github.com/rewardly/giftvault/internal/pkg/code"
	"github.com/rewardly/giftvault/internal/server/http/handlers"
	"github.com/rewardly/giftvault/internal/server/http/router"
	"github.com/rewardly/giftvault/internal/storage/postgres"
	"github.com/rewardly/giftvault/internal/storage/redisttl"
	"github.com/rewardly/giftvault/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		code.Module,
		postgres.Module,
		redisttl.Module,
		push.Module,
		usecase.Module,
		fx.Provide(
			func(n push.Notifier) usecase.Notifier { return n },
			func(f *app.GiftFacade) handlers.GiftFacade { return f },
			func(s *postgres.Storage, r *redisttl.Store) *handlers.HealthHandler {
				return handlers.NewHealthHandler(s, r)
			},
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
