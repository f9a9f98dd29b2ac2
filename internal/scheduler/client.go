package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"realtor_portal_backend/platform/config"
	"realtor_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Dispatcher periodically enqueues reconcile ticks onto the asynq queue. The
// unique option collapses overlapping enqueues so at most one reconcile task
// is pending per interval.
type Dispatcher struct {
	client   *asynq.Client
	queue    string
	interval time.Duration
	log      *logger.Logger
}

func NewDispatcher(cfg config.SchedulerConfig, interval time.Duration, log *logger.Logger) (*Dispatcher, error) {
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

	return &Dispatcher{
		client:   asynq.NewClient(opt),
		queue:    queue,
		interval: interval,
		log:      log,
	}, nil
}

func (d *Dispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

// Run enqueues one reconcile task per interval until the context is canceled.
// The first task is enqueued immediately so a fresh deployment reconciles
// without waiting a full interval.
func (d *Dispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.enqueueTick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		d.enqueueTick(ctx)
	}
}

func (d *Dispatcher) enqueueTick(ctx context.Context) {
	task, err := NewCoverageReconcileTask(CoverageReconcilePayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		d.log.Warn("build reconcile task failed", "error", err)
		return
	}

	_, err = d.client.EnqueueContext(ctx, task,
		asynq.Queue(d.queue),
		asynq.Unique(d.interval),
	)
	if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		d.log.Warn("enqueue reconcile task failed", "error", err)
	}
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
