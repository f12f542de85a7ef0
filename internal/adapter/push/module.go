package push

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/rewardly/giftvault/internal/config"
)

// Module exposes the notifier implementation to the fx graph.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (Notifier, error) {
	if p.Config.PushGatewayAddress == "" {
		p.Logger.Info("push gateway not configured, notifications disabled")
		return NoopNotifier{}, nil
	}
	return NewHTTPClient(p.Config.PushGatewayAddress, p.Logger)
}
