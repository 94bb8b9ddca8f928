// Package jobs runs periodic background work inside the API process.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is one unit of periodic work
type Task func(ctx context.Context) error

// Scheduler invokes a task every interval until its context is cancelled.
// A failing run is logged; the next tick tries again.
type Scheduler struct {
	name     string
	interval time.Duration
	task     Task
	clock    clockwork.Clock
}

func NewScheduler(name string, interval time.Duration, task Task, clock clockwork.Clock) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		task:     task,
		clock:    clock,
	}
}

// Run blocks until ctx is cancelled
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("Scheduler started", "job", s.name, "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped", "job", s.name)
			return
		case <-ticker.Chan():
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	start := s.clock.Now()
	if err := s.task(ctx); err != nil {
		slog.ErrorContext(ctx, "Scheduled job failed", "job", s.name, "error", err)
		return
	}
	slog.DebugContext(ctx, "Scheduled job completed", "job", s.name, "duration", s.clock.Since(start))
}
