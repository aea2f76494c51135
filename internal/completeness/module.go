// Package completeness implements the data-completeness watchdog module.
package completeness

import (
	"context"

	"staffing_ops_backend/internal/completeness/handler"
	"staffing_ops_backend/internal/completeness/repository"
	"staffing_ops_backend/internal/completeness/service"
	"staffing_ops_backend/internal/events"
	apphttp "staffing_ops_backend/internal/http"
	"staffing_ops_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the completeness bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the completeness module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)

	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "completeness"
}

// Service returns the watchdog service for background worker wiring.
func (m *Module) Service() *service.Service {
	return m.service
}

// ScanClients runs a batch watchdog pass, discarding the summary. It lets the
// module act as the post-sync cascade target.
func (m *Module) ScanClients(ctx context.Context) error {
	_, err := m.service.ScanClients(ctx)
	return err
}

// RegisterRoutes mounts completeness routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/completeness/scan", m.handler.Scan)
	ctx.Admin.POST("/completeness/clients/:id", m.handler.CheckClient)
	ctx.Admin.POST("/completeness/clients/:id/resolve", m.handler.ResolveClient)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
