package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffing_ops_backend/internal/crmsync/repository"
	"staffing_ops_backend/internal/crmsync/transport"
	"staffing_ops_backend/platform/httpkit"
)

// SyncEnqueuer queues a manual full-sync job for the background worker.
type SyncEnqueuer interface {
	EnqueueFullSync(ctx context.Context) error
}

// Handler handles HTTP requests for CRM synchronization.
type Handler struct {
	repo     repository.Repository
	enqueuer SyncEnqueuer
}

// New creates a new crmsync handler.
func New(repo repository.Repository, enqueuer SyncEnqueuer) *Handler {
	return &Handler{repo: repo, enqueuer: enqueuer}
}

// Status returns recent sync runs and whether a sync completed today.
// GET /api/v1/crm/sync/status
func (h *Handler) Status(c *gin.Context) {
	runs, err := h.repo.RecentSyncRuns(c.Request.Context(), 10)
	if httpkit.HandleError(c, err) {
		return
	}

	startOfToday := startOfDay(time.Now())
	response := transport.SyncStatusResponse{
		Runs: make([]transport.SyncRunResponse, 0, len(runs)),
	}
	for _, run := range runs {
		if run.Status == repository.StatusCompleted && run.CompletedAt != nil && !run.CompletedAt.Before(startOfToday) {
			response.SyncedToday = true
		}
		response.Runs = append(response.Runs, transport.SyncRunResponse{
			ID:          run.ID,
			Status:      run.Status,
			StartedAt:   run.StartedAt,
			CompletedAt: run.CompletedAt,
		})
	}

	httpkit.OK(c, response)
}

// Enqueue queues a manual full sync for the background worker.
// POST /api/v1/admin/crm/sync
func (h *Handler) Enqueue(c *gin.Context) {
	if h.enqueuer == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "background scheduler not configured")
		return
	}
	if err := h.enqueuer.EnqueueFullSync(c.Request.Context()); err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to queue sync")
		return
	}
	httpkit.Accepted(c, transport.EnqueueResponse{Queued: true})
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
