// Package scheduler drives the engine's background work: a ticker-based
// sweep that draws expired countdowns and a cron job that keeps an active
// raffle alive per template.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"raffle-engine/internal/pkg/errs"
	"raffle-engine/internal/usecase/commands"

	"github.com/robfig/cron/v3"
)

var ErrAlreadyRunning = errs.New("scheduler already running")

type Config struct {
	SweepInterval     time.Duration
	ReplenishSchedule string
}

type Scheduler struct {
	mu sync.Mutex

	draws     commands.DrawCommands
	replenish commands.ReplenishCommands
	cfg       Config
	cron      *cron.Cron

	// sweeping guards against overlapping sweeps when one run outlasts
	// the tick interval.
	sweeping sync.Mutex

	running bool
	done    chan struct{}
	wg      sync.WaitGroup
}

func New(draws commands.DrawCommands, replenish commands.ReplenishCommands, cfg Config) *Scheduler {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.ReplenishSchedule == "" {
		cfg.ReplenishSchedule = "@every 5m"
	}
	return &Scheduler{
		draws:     draws,
		replenish: replenish,
		cfg:       cfg,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.cfg.ReplenishSchedule, func() {
		s.runReplenish(ctx)
	}); err != nil {
		return errs.Wrap(err, "invalid replenish schedule")
	}

	s.running = true
	s.done = make(chan struct{})
	s.cron.Start()

	s.wg.Add(1)
	go s.sweepLoop(ctx)

	slog.Info("scheduler started",
		"sweep_interval", s.cfg.SweepInterval.String(),
		"replenish_schedule", s.cfg.ReplenishSchedule)
	return nil
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.done)
	cronCtx := s.cron.Stop()
	<-cronCtx.Done()
	s.wg.Wait()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	if !s.sweeping.TryLock() {
		slog.Warn("sweep still in progress, skipping tick")
		return
	}
	defer s.sweeping.Unlock()

	report, err := s.draws.SweepOnce(ctx)
	if err != nil {
		slog.Error("sweep failed", "error", err.Error())
		return
	}
	if report.Due > 0 {
		slog.Info("sweep finished",
			"due", report.Due,
			"drawn", report.Drawn,
			"no_winner", report.NoWin,
			"failed", report.Failed)
	}
}

func (s *Scheduler) runReplenish(ctx context.Context) {
	if err := s.replenish.EnsureAll(ctx); err != nil {
		slog.Error("replenishment run failed", "error", err.Error())
	}
}
