package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffing_ops_backend/internal/dashboard/service"
	"staffing_ops_backend/internal/dashboard/transport"
	"staffing_ops_backend/platform/httpkit"
	"staffing_ops_backend/platform/validator"
)

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new dashboard handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Summary returns the composed dashboard for the authenticated viewer.
// GET /api/v1/dashboard
func (h *Handler) Summary(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	role := httpkit.RoleRecruiter
	if identity.HasRole(httpkit.RoleFieldManager) {
		role = httpkit.RoleFieldManager
	}

	summary := h.svc.Summary(c.Request.Context(), identity.UserID(), role)
	httpkit.OK(c, summary)
}

// Metrics returns pipeline metrics for a caller-supplied date range.
// GET /api/v1/dashboard/metrics?start=2024-01-01&end=2024-01-31
func (h *Handler) Metrics(c *gin.Context) {
	var req transport.MetricsQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "start and end must be dates formatted as 2006-01-02")
		return
	}

	start, _ := time.ParseInLocation("2006-01-02", req.Start, time.Local)
	end, _ := time.ParseInLocation("2006-01-02", req.End, time.Local)
	if end.Before(start) {
		httpkit.Error(c, http.StatusBadRequest, "end must not precede start")
		return
	}

	result, err := h.svc.MetricsForRange(c.Request.Context(), start, end)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
