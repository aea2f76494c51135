package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"staffing_ops_backend/internal/contacts/service"
	"staffing_ops_backend/platform/httpkit"
)

// Handler handles HTTP requests for contact cadences.
type Handler struct {
	svc *service.Service
}

// New creates a new contacts handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// DueList returns the viewer's role-scoped contact due list.
// GET /api/v1/contacts/due
func (h *Handler) DueList(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	role := ""
	switch {
	case identity.HasRole(httpkit.RoleRecruiter):
		role = httpkit.RoleRecruiter
	case identity.HasRole(httpkit.RoleFieldManager):
		role = httpkit.RoleFieldManager
	}

	result, err := h.svc.DueList(c.Request.Context(), role, time.Now())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
