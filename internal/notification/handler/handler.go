package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"staffing_ops_backend/internal/notification/service"
	"staffing_ops_backend/platform/httpkit"
)

// Handler handles HTTP requests for the notification feed.
type Handler struct {
	feed *service.Feed
}

// New creates a new notification handler.
func New(feed *service.Feed) *Handler {
	return &Handler{feed: feed}
}

// List returns the in-app notification feed, most recent first.
// GET /api/v1/notifications
func (h *Handler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	httpkit.OK(c, h.feed.List(limit))
}
