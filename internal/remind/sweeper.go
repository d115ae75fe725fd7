// Package remind periodically scans the store for items coming due and
// publishes one reminder event per item.
package remind

import (
	"context"
	"log/slog"
	"time"

	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/store"
)

// PublishFunc delivers a due reminder for an item.
type PublishFunc func(item models.Item)

// Sweeper watches due dates. An item is reminded at most once per process
// lifetime; the store itself is never mutated.
type Sweeper struct {
	store    store.Store
	publish  PublishFunc
	horizon  time.Duration
	interval time.Duration
	logger   *slog.Logger

	fired map[string]struct{}
}

// NewSweeper creates a sweeper. horizon is how far ahead of the due date a
// reminder fires; interval is the scan period.
func NewSweeper(st store.Store, publish PublishFunc, horizon, interval time.Duration, logger *slog.Logger) *Sweeper {
	if horizon <= 0 {
		horizon = 15 * time.Minute
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		store:    st,
		publish:  publish,
		horizon:  horizon,
		interval: interval,
		logger:   logger,
		fired:    make(map[string]struct{}),
	}
}

// Run scans on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder sweeper: stopped")
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single scan. Exported so tests can drive it without timers.
func (s *Sweeper) Sweep(ctx context.Context) {
	items, err := s.store.ListAll(ctx, "")
	if err != nil {
		s.logger.Warn("reminder sweeper: list failed", slog.String("error", err.Error()))
		return
	}

	cutoff := time.Now().Add(s.horizon)
	for _, it := range items {
		if it.DueDate == nil || it.Completed {
			continue
		}
		if it.DueDate.After(cutoff) {
			continue
		}
		if _, done := s.fired[it.ID]; done {
			continue
		}
		s.fired[it.ID] = struct{}{}
		s.publish(it)
		s.logger.Info("reminder sweeper: item due",
			slog.String("id", it.ID),
			slog.String("title", it.Title),
			slog.Time("due", *it.DueDate))
	}
}
