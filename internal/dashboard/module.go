// Package dashboard provides the operations dashboard bounded context:
// time-window pipeline metrics with period-over-period deltas, derived
// operational alerts, and the per-viewer summary composition.
package dashboard

import (
	"staffing_ops_backend/internal/dashboard/handler"
	"staffing_ops_backend/internal/dashboard/repository"
	"staffing_ops_backend/internal/dashboard/service"
	apphttp "staffing_ops_backend/internal/http"
	"staffing_ops_backend/platform/logger"
	"staffing_ops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the dashboard bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the dashboard module with all its dependencies.
// The contacts counter comes from the contacts module so due-contact KPIs and
// the due-list share one cadence rule.
func NewModule(pool *pgxpool.Pool, contacts service.DueContactCounter, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, contacts, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts dashboard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/dashboard", m.handler.Summary)
	ctx.Protected.GET("/dashboard/metrics", m.handler.Metrics)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
