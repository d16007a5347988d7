package gateway

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/shopflow/ordercore/internal/config"
)

// Module exposes the payment gateway adapter to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(newVerifier),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.GatewayAddress, p.Config.GatewayKeyID, p.Config.GatewayKeySecret, p.Config.GatewayTimeout, p.Logger)
}

func newVerifier(p clientParams) *Verifier {
	return NewVerifier(p.Config.GatewayKeySecret)
}
