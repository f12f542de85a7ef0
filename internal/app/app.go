package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/rewardly/giftvault/internal/config"
	"github.com/rewardly/giftvault/internal/watcher"
	"github.com/rewardly/giftvault/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewGiftFacade,
		newHTTPServer,
		newExpiryWatcher,
		newExpirySweeper,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type watcherParams struct {
	fx.In

	Stream watcher.ExpiryStream
	Facade *GiftFacade
	Logger *slog.Logger
}

func newExpiryWatcher(p watcherParams) *watcher.ExpiryWatcher {
	return watcher.NewExpiryWatcher(p.Stream, p.Facade, p.Logger)
}

type sweeperParams struct {
	fx.In

	Facade *GiftFacade
	Config *config.Config
	Logger *slog.Logger
}

func newExpirySweeper(p sweeperParams) *worker.ExpirySweeper {
	return worker.NewExpirySweeper(p.Facade, p.Config.SweepInterval, p.Logger)
}

type lifecycleParams struct {
	fx.In

	// Ctx is the process-lifetime context; the OnStart context only covers
	// the startup procedure and would cancel the loops at its deadline.
	Ctx        context.Context
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Watcher    *watcher.ExpiryWatcher
	Sweeper    *worker.ExpirySweeper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting giftvault", slog.String("addr", p.Server.Addr))
			p.Watcher.Start(p.Ctx)
			p.Sweeper.Start(p.Ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Sweeper.Stop()
			p.Watcher.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("giftvault stopped")
			return nil
		},
	})
}
