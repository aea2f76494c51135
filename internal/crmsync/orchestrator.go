// Package crmsync provides the daily CRM synchronization bounded context: a
// startup-triggered, once-per-calendar-day external sync with a cascading
// recomputation pass over derived data.
package crmsync

import (
	"context"
	"time"

	"staffing_ops_backend/internal/crmsync/repository"
	"staffing_ops_backend/internal/events"
	"staffing_ops_backend/platform/logger"
	"staffing_ops_backend/platform/metrics"
)

// Connector triggers a full sync against the external CRM. It blocks until
// the sync finishes and returns an error on failure.
type Connector interface {
	RunFullSync(ctx context.Context) error
}

// CompletenessScanner runs the data-completeness watchdog pass after a
// successful sync. Implemented by the completeness module.
type CompletenessScanner interface {
	ScanClients(ctx context.Context) error
}

// Orchestrator coordinates the daily sync: decide whether today's sync already
// happened, trigger it when it has not, and cascade into dependent
// recomputation once it succeeds.
type Orchestrator struct {
	repo         repository.Repository
	connector    Connector
	completeness CompletenessScanner
	bus          events.Bus
	log          *logger.Logger
}

// NewOrchestrator creates a new daily sync orchestrator.
func NewOrchestrator(repo repository.Repository, connector Connector, completeness CompletenessScanner, bus events.Bus, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		repo:         repo,
		connector:    connector,
		completeness: completeness,
		bus:          bus,
		log:          log,
	}
}

// TriggerStartupSync runs the once-per-day decision at process start. When the
// most recent completed run falls on the current calendar day the call is a
// no-op. When the lookup itself fails, the orchestrator does NOT sync: an
// external sync is expensive and must never run twice because state was
// ambiguous. The sync itself runs detached so startup never blocks on it.
func (o *Orchestrator) TriggerStartupSync(ctx context.Context, now time.Time) {
	last, err := o.repo.LatestCompletedSyncRun(ctx)
	if err != nil {
		o.log.Warn("daily sync skipped: cannot determine last completed run", "error", err)
		return
	}

	if last != nil && last.CompletedAt != nil && !last.CompletedAt.Before(startOfDay(now)) {
		o.log.SyncEvent("already_synced_today", "completedAt", *last.CompletedAt)
		return
	}

	o.log.SyncEvent("startup_trigger")
	go func() {
		// Detached from the startup path with its own error boundary; a
		// rejection here must never be silently dropped.
		defer func() {
			if r := recover(); r != nil {
				o.log.Error("daily sync panicked", "panic", r)
			}
		}()
		// The request context dies with startup; the sync should not.
		if err := o.RunFullSync(context.WithoutCancel(ctx)); err != nil {
			o.log.SyncError("daily_sync", err)
		}
	}()
}

// RunFullSync executes one full sync and, on success, the dependent
// recomputation cascade. Also used by the background worker for manual runs.
func (o *Orchestrator) RunFullSync(ctx context.Context) error {
	started := time.Now()
	o.log.SyncEvent("sync_started")

	if err := o.connector.RunFullSync(ctx); err != nil {
		metrics.SyncRunsTotal.WithLabelValues("failed").Inc()
		o.bus.Publish(ctx, events.CRMSyncFailed{
			BaseEvent: events.NewBaseEvent(),
			Reason:    err.Error(),
		})
		return err
	}

	metrics.SyncRunsTotal.WithLabelValues("completed").Inc()
	o.log.SyncEvent("sync_completed", "durationMs", time.Since(started).Milliseconds())
	o.bus.Publish(ctx, events.CRMSyncCompleted{
		BaseEvent:  events.NewBaseEvent(),
		DurationMs: time.Since(started).Milliseconds(),
	})

	o.recomputeOpenVacancies(ctx)

	if o.completeness != nil {
		if err := o.completeness.ScanClients(ctx); err != nil {
			// Watchdog failure does not fail the sync; the nightly scan will retry.
			o.log.Error("post-sync completeness scan failed", "error", err)
		}
	}

	return nil
}

// recomputeOpenVacancies refreshes cached match scores for every open vacancy.
// Vacancies are processed strictly sequentially and each failure is isolated
// to its own vacancy so one bad recompute cannot abort the rest.
func (o *Orchestrator) recomputeOpenVacancies(ctx context.Context) {
	ids, err := o.repo.ListOpenVacancyIDs(ctx)
	if err != nil {
		o.log.Error("match recompute skipped: cannot list open vacancies", "error", err)
		return
	}

	recomputed, failed := 0, 0
	for _, id := range ids {
		if err := o.repo.RecomputeVacancyMatches(ctx, id); err != nil {
			failed++
			metrics.VacancyRecomputeTotal.WithLabelValues("failed").Inc()
			o.log.Error("vacancy match recompute failed", "vacancyId", id, "error", err)
			continue
		}
		recomputed++
		metrics.VacancyRecomputeTotal.WithLabelValues("ok").Inc()
	}

	o.log.SyncEvent("matches_recomputed", "recomputed", recomputed, "failed", failed)
	o.bus.Publish(ctx, events.VacancyMatchesRecomputed{
		BaseEvent:  events.NewBaseEvent(),
		Recomputed: recomputed,
		Failed:     failed,
	})
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
