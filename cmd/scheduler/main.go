package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffing_ops_backend/internal/completeness"
	"staffing_ops_backend/internal/crmsync"
	"staffing_ops_backend/internal/email"
	"staffing_ops_backend/internal/events"
	"staffing_ops_backend/internal/notification"
	"staffing_ops_backend/internal/scheduler"
	"staffing_ops_backend/platform/config"
	"staffing_ops_backend/platform/db"
	"staffing_ops_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

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

	sender := email.NewSender(cfg, log)

	// Feed lives per-process; the worker keeps one so event relays (email on
	// sync failure, follow-up mail) also run from background jobs.
	notification.NewModule(eventBus, sender, log)

	completenessModule := completeness.NewModule(pool, eventBus, log)
	crmsyncModule := crmsync.NewModule(pool, cfg, completenessModule, nil, eventBus, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	// Seed the self-perpetuating nightly watchdog pass.
	if err := client.ScheduleCompletenessScan(ctx, nextScanSeed(time.Now())); err != nil {
		log.Error("failed to seed completeness scan", "error", err)
	}

	worker, err := scheduler.NewWorker(cfg, crmsyncModule.Orchestrator(), completenessModule, client, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

// nextScanSeed returns the next 02:00 UTC slot, today's if still ahead.
func nextScanSeed(now time.Time) time.Time {
	utc := now.UTC()
	slot := time.Date(utc.Year(), utc.Month(), utc.Day(), 2, 0, 0, 0, time.UTC)
	if !slot.After(utc) {
		slot = slot.AddDate(0, 0, 1)
	}
	return slot
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
