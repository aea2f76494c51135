package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

func TestCompletenessScanPayloadRoundTrip(t *testing.T) {
	task, err := NewCompletenessScanTask(CompletenessScanPayload{ScheduledFor: "2026-08-31"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskCompletenessScan {
		t.Fatalf("unexpected task type: %s", task.Type())
	}

	payload, err := ParseCompletenessScanPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.ScheduledFor != "2026-08-31" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCRMFullSyncPayloadRoundTrip(t *testing.T) {
	task, err := NewCRMFullSyncTask(CRMFullSyncPayload{Manual: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, err := ParseCRMFullSyncPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payload.Manual {
		t.Fatal("expected manual flag to survive the round trip")
	}
}

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "ops" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 2 }

func TestClientEnqueuesFullSync(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.EnqueueFullSync(context.Background()); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("ops")
	if err != nil {
		t.Fatalf("list pending tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Type != TaskCRMFullSync {
		t.Fatalf("expected one pending full-sync task, got %+v", tasks)
	}
}

func TestScheduleCompletenessScanDedupesSameSlot(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	runAt := time.Now().Add(time.Hour)
	if err := client.ScheduleCompletenessScan(context.Background(), runAt); err != nil {
		t.Fatalf("first schedule failed: %v", err)
	}
	if err := client.ScheduleCompletenessScan(context.Background(), runAt); err != nil {
		t.Fatalf("duplicate schedule must be a no-op, got: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("ops")
	if err != nil {
		t.Fatalf("list scheduled tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected exactly one scheduled scan, got %d", len(tasks))
	}
}

func TestNextScanTimeIsTomorrowAtTwoUTC(t *testing.T) {
	now := time.Date(2026, time.August, 30, 14, 30, 0, 0, time.UTC)
	next := nextScanTime(now)
	want := time.Date(2026, time.August, 31, 2, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("expected %s, got %s", want, next)
	}
}
