package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffing_ops_backend/internal/completeness"
	"staffing_ops_backend/internal/contacts"
	"staffing_ops_backend/internal/crmsync"
	crmsynchandler "staffing_ops_backend/internal/crmsync/handler"
	"staffing_ops_backend/internal/dashboard"
	"staffing_ops_backend/internal/email"
	"staffing_ops_backend/internal/events"
	apphttp "staffing_ops_backend/internal/http"
	"staffing_ops_backend/internal/http/router"
	"staffing_ops_backend/internal/notification"
	"staffing_ops_backend/internal/scheduler"
	"staffing_ops_backend/platform/config"
	"staffing_ops_backend/platform/db"
	"staffing_ops_backend/platform/logger"
	"staffing_ops_backend/platform/validator"

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
		return db.RunMigrations(ctx, cfg, "migrations")
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

	// asynq client for manual sync runs; nil when Redis is not configured
	schedulerClient, closeScheduler := initSchedulerClient(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender := email.NewSender(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module keeps the in-app feed and relays events to email
	notificationModule := notification.NewModule(eventBus, sender, log)

	contactsModule := contacts.NewModule(pool, log)
	dashboardModule := dashboard.NewModule(pool, contactsModule.Service(), val, log)
	completenessModule := completeness.NewModule(pool, eventBus, log)

	var enqueuer crmsynchandler.SyncEnqueuer
	if schedulerClient != nil {
		enqueuer = schedulerClient
	}
	crmsyncModule := crmsync.NewModule(pool, cfg, completenessModule, enqueuer, eventBus, log)

	// Once-per-day sync decision at startup; the sync itself runs detached
	if cfg.IsStartupSyncEnabled() && cfg.IsCRMSyncEnabled() {
		crmsyncModule.Orchestrator().TriggerStartupSync(ctx, time.Now())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: pool,
		Modules: []apphttp.Module{
			dashboardModule,
			contactsModule,
			crmsyncModule,
			completenessModule,
			notificationModule,
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initSchedulerClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; background job scheduling disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
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
