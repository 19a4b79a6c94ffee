package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/zeon-ai/zeon/internal/events"
)

// ReloadFunc performs one catalog reload cycle.
type ReloadFunc func(ctx context.Context) error

// Scheduler triggers a catalog reload whenever the cron schedule matches.
// It ticks once a minute; a tick landing in a scheduled minute fires.
type Scheduler struct {
	expr   *CronExpr
	bus    *events.Bus
	reload ReloadFunc
	done   chan struct{}
}

// New creates a scheduler for the given 5-field cron expression.
func New(cronSpec string, bus *events.Bus, reload ReloadFunc) (*Scheduler, error) {
	expr, err := ParseCron(cronSpec)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		expr:   expr,
		bus:    bus,
		reload: reload,
		done:   make(chan struct{}),
	}, nil
}

// Start begins the ticker loop.
func (s *Scheduler) Start() {
	slog.Info("scheduler started", "cron", s.expr.String(), "next", s.expr.Next(time.Now()))
	go s.loop()
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	close(s.done)
	slog.Info("scheduler stopped")
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			if s.expr.Matches(now) {
				s.fire(now)
			}
		}
	}
}

func (s *Scheduler) fire(now time.Time) {
	if s.bus != nil {
		s.bus.Publish(events.NewEvent(events.EventScheduleTrigger, events.SourceScheduler, map[string]any{
			"cron": s.expr.String(),
			"at":   now.Format(time.RFC3339),
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.reload(ctx); err != nil {
		slog.Error("scheduled reload failed", "error", err)
		return
	}
	slog.Info("scheduled reload completed", "cron", s.expr.String())
}
