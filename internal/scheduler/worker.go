package scheduler

import (
	"context"
	"errors"
	"fmt"

	"realtor_portal_backend/internal/coverage"
	"realtor_portal_backend/platform/config"
	"realtor_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// TickRunner is the slice of the reconciler the worker needs.
type TickRunner interface {
	RunTick(ctx context.Context) (coverage.TickStats, error)
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	reconciler TickRunner
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reconciler TickRunner, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		reconciler: reconciler,
		log:        log,
	}

	mux.HandleFunc(TaskCoverageReconcile, w.handleCoverageReconcile)

	return w, nil
}

func (w *Worker) handleCoverageReconcile(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCoverageReconcilePayload(task)
	if err != nil {
		return err
	}

	stats, err := w.reconciler.RunTick(ctx)
	if errors.Is(err, coverage.ErrTickInProgress) {
		// Another tick is mid-flight; this one is redundant, not failed.
		w.log.Info("reconcile tick skipped, previous tick still running",
			"requested_at", payload.RequestedAt)
		return nil
	}
	if err != nil {
		return err
	}

	w.log.Info("reconcile tick processed",
		"requested_at", payload.RequestedAt,
		"demoted", stats.Demoted,
		"promoted", stats.Promoted,
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
