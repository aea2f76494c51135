// Package notification maintains the in-app operational notification feed and
// relays selected events to email.
package notification

import (
	"context"
	"fmt"
	"strings"

	"staffing_ops_backend/internal/email"
	"staffing_ops_backend/internal/events"
	apphttp "staffing_ops_backend/internal/http"
	"staffing_ops_backend/internal/notification/handler"
	"staffing_ops_backend/internal/notification/service"
	"staffing_ops_backend/platform/logger"
)

// Module is the notification bounded context module implementing http.Module.
type Module struct {
	feed    *service.Feed
	handler *handler.Handler
	sender  *email.Sender
	log     *logger.Logger
}

// NewModule creates the notification module and subscribes it to the domain
// events it surfaces.
func NewModule(bus events.Bus, sender *email.Sender, log *logger.Logger) *Module {
	feed := service.NewFeed(service.DefaultCapacity)
	m := &Module{
		feed:    feed,
		handler: handler.New(feed),
		sender:  sender,
		log:     log,
	}
	m.subscribe(bus)
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// Feed returns the underlying notification feed.
func (m *Module) Feed() *service.Feed {
	return m.feed
}

// RegisterRoutes mounts notification routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/notifications", m.handler.List)
}

func (m *Module) subscribe(bus events.Bus) {
	bus.Subscribe(events.CRMSyncCompleted{}.EventName(), events.HandlerFunc(m.onSyncCompleted))
	bus.Subscribe(events.CRMSyncFailed{}.EventName(), events.HandlerFunc(m.onSyncFailed))
	bus.Subscribe(events.VacancyMatchesRecomputed{}.EventName(), events.HandlerFunc(m.onMatchesRecomputed))
	bus.Subscribe(events.CompletenessTodoCreated{}.EventName(), events.HandlerFunc(m.onTodoCreated))
}

func (m *Module) onSyncCompleted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CRMSyncCompleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	m.feed.Push("crm_sync", "info",
		fmt.Sprintf("CRM synchronization completed in %dms", e.DurationMs))
	return nil
}

func (m *Module) onSyncFailed(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CRMSyncFailed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	m.feed.Push("crm_sync", "error", "CRM synchronization failed: "+e.Reason)

	if err := m.sender.SendSyncFailure(ctx, e.Reason); err != nil {
		m.log.Error("failed to send sync failure email", "error", err)
	}
	return nil
}

func (m *Module) onMatchesRecomputed(ctx context.Context, event events.Event) error {
	e, ok := event.(events.VacancyMatchesRecomputed)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	severity := "info"
	if e.Failed > 0 {
		severity = "warning"
	}
	m.feed.Push("matching", severity,
		fmt.Sprintf("Recomputed matches for %d vacancies (%d failed)", e.Recomputed, e.Failed))
	return nil
}

func (m *Module) onTodoCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(events.CompletenessTodoCreated)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	m.feed.Push("completeness", "warning",
		fmt.Sprintf("Client %q is missing %s", e.ClientName, strings.Join(e.MissingFields, ", ")))

	if err := m.sender.SendTodoCreated(ctx, e.AssigneeEmail, e.ClientName, e.MissingFields); err != nil {
		m.log.Error("failed to send follow-up email", "error", err)
	}
	return nil
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
