package components

import (
	"raffle-engine/internal/infra/notify"
	"raffle-engine/internal/pkg/clock"
	"raffle-engine/internal/pkg/config"
	"raffle-engine/internal/usecase/commands"
	"raffle-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		notify.NewLogNotifier,
		fx.As(new(commands.Notifier)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAllocationUseCase,
		commands.NewReplenishUseCase,
		func(uow shared.UnitOfWork, replenish commands.ReplenishCommands, notifier commands.Notifier, clk clock.Clock, cfg config.Config) commands.DrawCommands {
			return commands.NewDrawUseCase(uow, replenish, notifier, clk, cfg.Engine.SweepBatchSize)
		},
		func(uow shared.UnitOfWork, allocation commands.AllocationCommands, clk clock.Clock, cfg config.Config) commands.PurchaseCommands {
			return commands.NewPurchaseUseCase(uow, allocation, clk, cfg.Engine.SimulatePayments)
		},
	),
)
