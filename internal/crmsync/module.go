package crmsync

import (
	"staffing_ops_backend/internal/crmsync/connector"
	"staffing_ops_backend/internal/crmsync/handler"
	"staffing_ops_backend/internal/crmsync/repository"
	"staffing_ops_backend/internal/events"
	apphttp "staffing_ops_backend/internal/http"
	"staffing_ops_backend/platform/config"
	"staffing_ops_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the crmsync bounded context module implementing http.Module.
type Module struct {
	handler      *handler.Handler
	orchestrator *Orchestrator
	repo         repository.Repository
}

// NewModule creates and initializes the crmsync module. The completeness
// scanner is injected from the completeness module so a successful sync can
// cascade into the watchdog pass.
func NewModule(pool *pgxpool.Pool, cfg config.CRMConfig, completeness CompletenessScanner, enqueuer handler.SyncEnqueuer, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	conn := connector.NewClient(cfg, repo, log)
	orch := NewOrchestrator(repo, conn, completeness, bus, log)

	return &Module{
		handler:      handler.New(repo, enqueuer),
		orchestrator: orch,
		repo:         repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "crmsync"
}

// Orchestrator returns the daily sync orchestrator for startup wiring and the
// background worker.
func (m *Module) Orchestrator() *Orchestrator {
	return m.orchestrator
}

// RegisterRoutes mounts CRM sync routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/crm/sync/status", m.handler.Status)
	ctx.Admin.POST("/crm/sync", m.handler.Enqueue)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
