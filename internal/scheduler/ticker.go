package scheduler

import (
	"context"
	"errors"
	"time"

	"realtor_portal_backend/internal/coverage"
	"realtor_portal_backend/platform/logger"
)

// Ticker runs reconcile ticks in-process on a fixed interval. It is the
// fallback when REDIS_URL is not configured and no asynq queue exists.
type Ticker struct {
	reconciler TickRunner
	interval   time.Duration
	log        *logger.Logger
}

func NewTicker(reconciler TickRunner, interval time.Duration, log *logger.Logger) *Ticker {
	return &Ticker{
		reconciler: reconciler,
		interval:   interval,
		log:        log,
	}
}

// Run ticks until the context is canceled. The first tick fires immediately.
func (t *Ticker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		t.tick(ctx)
	}
}

func (t *Ticker) tick(ctx context.Context) {
	stats, err := t.reconciler.RunTick(ctx)
	if errors.Is(err, coverage.ErrTickInProgress) {
		return
	}
	if err != nil {
		t.log.Error("reconcile tick failed", "error", err)
		return
	}
	t.log.Info("reconcile tick processed", "demoted", stats.Demoted, "promoted", stats.Promoted)
}
