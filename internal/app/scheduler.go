/**
 * @description
 * Cron scheduler that evicts idle transfer flows from the registry.
 */
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the idle flow sweep on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	registry *FlowRegistry
	logger   *slog.Logger
	schedule string
	maxIdle  time.Duration
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(registry *FlowRegistry, logger *slog.Logger, schedule string, maxIdle time.Duration) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:     c,
		registry: registry,
		logger:   logger,
		schedule: schedule,
		maxIdle:  maxIdle,
	}
}

// Start registers the sweep job and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.SweepIdleFlows); err != nil {
		s.logger.Error("failed to schedule idle flow sweep", "error", err)
		return fmt.Errorf("schedule idle flow sweep %q: %w", s.schedule, err)
	}
	s.logger.Info("scheduled idle flow sweep", "schedule", s.schedule, "max_idle", s.maxIdle.String())

	s.cron.Start()
	return nil
}

// SweepIdleFlows drops flows idle for longer than the configured timeout.
func (s *Scheduler) SweepIdleFlows() {
	removed := s.registry.SweepIdle(s.maxIdle)
	if removed > 0 {
		s.logger.Info("idle transfer flows removed", "count", removed, "remaining", s.registry.Len())
	}
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
