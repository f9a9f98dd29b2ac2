package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"realtor_portal_backend/internal/assignments"
	"realtor_portal_backend/internal/coverage"
	"realtor_portal_backend/internal/events"
	apphttp "realtor_portal_backend/internal/http"
	"realtor_portal_backend/internal/http/router"
	"realtor_portal_backend/internal/leads"
	"realtor_portal_backend/internal/notifications"
	"realtor_portal_backend/internal/realtors"
	"realtor_portal_backend/internal/users"
	"realtor_portal_backend/migrations"
	"realtor_portal_backend/platform/config"
	"realtor_portal_backend/platform/db"
	"realtor_portal_backend/platform/logger"
	"realtor_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notifications module subscribes to coverage events (feed + HTTP)
	notificationsModule := notifications.NewModule(pool, log)
	notificationsModule.RegisterHandlers(eventBus)

	usersModule := users.NewModule(pool)
	leadsModule := leads.NewModule(pool, eventBus, val, log)
	realtorsModule := realtors.NewModule(pool, val, log)
	assignmentsModule := assignments.NewModule(pool, leadsModule.Repository(), realtorsModule.Repository(), eventBus, val, log)

	reconciler := coverage.NewReconciler(
		leadsModule.Repository(),
		realtorsModule.Repository(),
		coverage.NewMatcher(),
		eventBus,
		log,
		cfg.GetReconcileTickTimeout(),
	)
	coverageModule := coverage.NewModule(reconciler)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			usersModule,
			leadsModule,
			realtorsModule,
			assignmentsModule,
			notificationsModule,
			coverageModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
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
