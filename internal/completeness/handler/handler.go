package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"staffing_ops_backend/internal/completeness/service"
	"staffing_ops_backend/platform/apperr"
	"staffing_ops_backend/platform/httpkit"
)

// Handler handles HTTP requests for the completeness watchdog.
type Handler struct {
	service *service.Service
}

// New creates a new completeness handler.
func New(svc *service.Service) *Handler {
	return &Handler{service: svc}
}

// Scan runs the watchdog over all active clients.
// POST /api/v1/admin/completeness/scan
func (h *Handler) Scan(c *gin.Context) {
	response, err := h.service.ScanClients(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, response)
}

// CheckClient runs the watchdog for a single client.
// POST /api/v1/admin/completeness/clients/:id
func (h *Handler) CheckClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("invalid client id"))
		return
	}

	response, err := h.service.CheckClient(c.Request.Context(), clientID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, response)
}

// ResolveClient closes open follow-up items for a completed client.
// POST /api/v1/admin/completeness/clients/:id/resolve
func (h *Handler) ResolveClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.Validation("invalid client id"))
		return
	}

	response, err := h.service.ResolveClientTodos(c.Request.Context(), clientID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, response)
}
