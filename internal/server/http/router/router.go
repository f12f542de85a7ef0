package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/rewardly/giftvault/internal/server/http/handlers"
	"github.com/rewardly/giftvault/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.GiftFacade, health *handlers.HealthHandler, adminToken string, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	redemptionHandler := handlers.NewRedemptionHandler(facade)
	ledgerHandler := handlers.NewLedgerHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", health.Check)

	redemptions := api.Group("/redemptions")
	redemptions.POST("", redemptionHandler.Create)
	redemptions.POST("/claim", redemptionHandler.Claim)
	redemptions.GET("", redemptionHandler.List)
	redemptions.GET("/:id", redemptionHandler.Get)

	admin := redemptions.Group("")
	admin.Use(middleware.AdminRequired(adminToken))
	admin.DELETE("/:id", redemptionHandler.Delete)

	api.GET("/persons/:id/ledger", ledgerHandler.History)

	return engine
}
