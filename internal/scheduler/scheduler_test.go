package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"realtor_portal_backend/internal/coverage"
	"realtor_portal_backend/platform/logger"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestDispatcherEnqueueIsUniquePerInterval(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := testSchedulerConfig{redisURL: "redis://" + srv.Addr(), queue: "reconcile"}

	dispatcher, err := NewDispatcher(cfg, time.Minute, logger.New("test"))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer dispatcher.Close()

	ctx := context.Background()
	dispatcher.enqueueTick(ctx)
	dispatcher.enqueueTick(ctx)

	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer rdb.Close()

	pending, err := rdb.LLen(ctx, "asynq:{reconcile}:pending").Result()
	if err != nil {
		t.Fatalf("LLen: %v", err)
	}
	if pending != 1 {
		t.Fatalf("pending tasks = %d, want 1 (second enqueue should dedupe)", pending)
	}
}

func TestNewDispatcherRequiresRedisURL(t *testing.T) {
	_, err := NewDispatcher(testSchedulerConfig{}, time.Minute, logger.New("test"))
	if err == nil {
		t.Fatal("expected error when redis url is empty")
	}
}

type stubRunner struct {
	stats coverage.TickStats
	err   error
	calls int
}

func (s *stubRunner) RunTick(ctx context.Context) (coverage.TickStats, error) {
	s.calls++
	return s.stats, s.err
}

func TestHandleCoverageReconcile(t *testing.T) {
	task, err := NewCoverageReconcileTask(CoverageReconcilePayload{RequestedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("NewCoverageReconcileTask: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		runner := &stubRunner{stats: coverage.TickStats{Demoted: 2, Promoted: 1}}
		w := &Worker{reconciler: runner, log: logger.New("test")}
		if err := w.handleCoverageReconcile(context.Background(), task); err != nil {
			t.Fatalf("handleCoverageReconcile: %v", err)
		}
		if runner.calls != 1 {
			t.Fatalf("RunTick calls = %d, want 1", runner.calls)
		}
	})

	t.Run("overlapping tick is not a task failure", func(t *testing.T) {
		runner := &stubRunner{err: coverage.ErrTickInProgress}
		w := &Worker{reconciler: runner, log: logger.New("test")}
		if err := w.handleCoverageReconcile(context.Background(), task); err != nil {
			t.Fatalf("overlapping tick should be skipped, got %v", err)
		}
	})

	t.Run("other errors propagate for retry", func(t *testing.T) {
		wantErr := errors.New("db down")
		runner := &stubRunner{err: wantErr}
		w := &Worker{reconciler: runner, log: logger.New("test")}
		if err := w.handleCoverageReconcile(context.Background(), task); !errors.Is(err, wantErr) {
			t.Fatalf("error = %v, want %v", err, wantErr)
		}
	})
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.Addr != "localhost:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected opt: %+v", opt)
	}
	if opt.TLSConfig != nil {
		t.Fatal("plain redis url should not carry a TLS config")
	}

	if _, err := redisClientOpt("not a url", false); err == nil {
		t.Fatal("expected parse error")
	}
}
