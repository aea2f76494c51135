// Package scheduler wires background jobs through asynq: operator-triggered
// CRM syncs and the self-perpetuating nightly completeness scan.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"staffing_ops_backend/platform/config"
	"staffing_ops_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// SyncRunner executes one full CRM sync with its recomputation cascade.
// Implemented by the crmsync orchestrator.
type SyncRunner interface {
	RunFullSync(ctx context.Context) error
}

// CompletenessScanner runs one batch watchdog pass over all clients.
type CompletenessScanner interface {
	ScanClients(ctx context.Context) error
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	client *Client
	sync   SyncRunner
	scan   CompletenessScanner
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sync SyncRunner, scan CompletenessScanner, client *Client, log *logger.Logger) (*Worker, error) {
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
		server: server,
		mux:    mux,
		client: client,
		sync:   sync,
		scan:   scan,
		log:    log,
	}

	mux.HandleFunc(TaskCRMFullSync, w.handleCRMFullSync)
	mux.HandleFunc(TaskCompletenessScan, w.handleCompletenessScan)

	return w, nil
}

func (w *Worker) handleCRMFullSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCRMFullSyncPayload(task)
	if err != nil {
		return err
	}

	w.log.SyncEvent("worker_sync_started", "manual", payload.Manual)
	return w.sync.RunFullSync(ctx)
}

func (w *Worker) handleCompletenessScan(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCompletenessScanPayload(task)
	if err != nil {
		return err
	}

	w.log.Info("nightly completeness scan started", "scheduledFor", payload.ScheduledFor)
	scanErr := w.scan.ScanClients(ctx)

	// Schedule tomorrow's pass regardless of outcome so the cycle never dies.
	if w.client != nil {
		next := nextScanTime(time.Now())
		if err := w.client.ScheduleCompletenessScan(ctx, next); err != nil {
			w.log.Error("failed to schedule next completeness scan", "error", err)
		}
	}

	return scanErr
}

// nextScanTime returns 02:00 UTC on the day after now.
func nextScanTime(now time.Time) time.Time {
	tomorrow := now.UTC().AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 2, 0, 0, 0, time.UTC)
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
