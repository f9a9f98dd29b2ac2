package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realtor_portal_backend/internal/coverage"
	"realtor_portal_backend/internal/events"
	leadrepo "realtor_portal_backend/internal/leads/repository"
	"realtor_portal_backend/internal/notifications"
	realtorrepo "realtor_portal_backend/internal/realtors/repository"
	"realtor_portal_backend/internal/scheduler"
	"realtor_portal_backend/platform/config"
	"realtor_portal_backend/platform/db"
	"realtor_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting reconciler", "env", cfg.Env, "interval", cfg.ReconcileInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	// The feed writer must run in this process too, or reconcile ticks would
	// change lead statuses without recording the operator-facing messages.
	notificationsModule := notifications.NewModule(pool, log)
	notificationsModule.RegisterHandlers(eventBus)

	reconciler := coverage.NewReconciler(
		leadrepo.New(pool),
		realtorrepo.New(pool),
		coverage.NewMatcher(),
		eventBus,
		log,
		cfg.GetReconcileTickTimeout(),
	)

	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; running in-process ticker")
		scheduler.NewTicker(reconciler, cfg.ReconcileInterval, log).Run(ctx)
		return
	}

	dispatcher, err := scheduler.NewDispatcher(cfg, cfg.ReconcileInterval, log)
	if err != nil {
		log.Error("failed to initialize dispatcher", "error", err)
		panic("failed to initialize dispatcher: " + err.Error())
	}
	defer func() { _ = dispatcher.Close() }()

	worker, err := scheduler.NewWorker(cfg, reconciler, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		dispatcher.Run(groupCtx)
		return nil
	})
	group.Go(func() error {
		worker.Run(groupCtx)
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("reconciler stopped", "error", err)
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
