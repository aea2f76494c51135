// Package contacts provides the contact-cadence bounded context: tiered
// follow-up intervals derived from each entity's last contact moment.
package contacts

import (
	"staffing_ops_backend/internal/contacts/handler"
	"staffing_ops_backend/internal/contacts/repository"
	"staffing_ops_backend/internal/contacts/service"
	apphttp "staffing_ops_backend/internal/http"
	"staffing_ops_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the contacts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the contacts module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "contacts"
}

// Service returns the service layer for external use (dashboard KPI wiring).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts contact cadence routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/contacts/due", m.handler.DueList)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
