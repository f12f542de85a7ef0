package router

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/gin-gonic/gin"

	"github.com/rewardly/giftvault/internal/config"
	"github.com/rewardly/giftvault/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(setup)

type routerParams struct {
	fx.In

	Facade handlers.GiftFacade
	Health *handlers.HealthHandler
	Config *config.Config
	Logger *slog.Logger
}

func setup(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Health, p.Config.AdminToken, p.Logger)
}
