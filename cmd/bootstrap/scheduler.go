package bootstrap

import (
	"context"

	"raffle-engine/internal/pkg/config"
	"raffle-engine/internal/scheduler"
	"raffle-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(NewScheduler),
	fx.Invoke(runScheduler),
)

func NewScheduler(draws commands.DrawCommands, replenish commands.ReplenishCommands, cfg config.Config) *scheduler.Scheduler {
	return scheduler.New(draws, replenish, scheduler.Config{
		SweepInterval:     cfg.Engine.SweepInterval,
		ReplenishSchedule: cfg.Engine.ReplenishSchedule,
	})
}

func runScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return s.Start(context.Background())
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
