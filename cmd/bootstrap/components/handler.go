package components

import (
	"raffle-engine/internal/handler"
	"raffle-engine/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRaffleHandler,
		api.NewWebhookHandler,
		api.NewAdminHandler,
	),
	fx.Invoke(handler.NewRouter),
)
