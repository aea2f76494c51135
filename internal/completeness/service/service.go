// Package service implements the data-completeness watchdog: detect required
// client attributes that are absent or blank and raise deduplicated follow-up
// work items for the responsible users.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staffing_ops_backend/internal/completeness/repository"
	"staffing_ops_backend/internal/completeness/transport"
	"staffing_ops_backend/internal/events"
	"staffing_ops_backend/platform/apperr"
	"staffing_ops_backend/platform/logger"
	"staffing_ops_backend/platform/metrics"

	"github.com/google/uuid"
)

const (
	entityTypeClient = "client"

	todoDueDays = 7
	// More than this many missing fields escalates the todo priority.
	highPriorityThreshold = 3
)

// requiredClientField pairs a human label with its accessor.
type requiredClientField struct {
	label string
	value func(repository.Client) *string
}

var requiredClientFields = []requiredClientField{
	{"contact name", func(c repository.Client) *string { return c.ContactName }},
	{"contact email", func(c repository.Client) *string { return c.ContactEmail }},
	{"contact phone", func(c repository.Client) *string { return c.ContactPhone }},
}

// Service provides completeness detection and follow-up item management.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new completeness service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// MissingClientFields returns the labels of required fields that are absent or
// blank (empty or whitespace-only), in declaration order.
func MissingClientFields(client repository.Client) []string {
	missing := make([]string, 0, len(requiredClientFields))
	for _, field := range requiredClientFields {
		value := field.value(client)
		if value == nil || strings.TrimSpace(*value) == "" {
			missing = append(missing, field.label)
		}
	}
	return missing
}

// CheckClient runs the watchdog for a single client.
func (s *Service) CheckClient(ctx context.Context, clientID uuid.UUID) (transport.CheckResponse, error) {
	client, err := s.repo.GetClient(ctx, clientID)
	if err != nil {
		return transport.CheckResponse{}, err
	}

	missing, created := s.createContactTodos(ctx, client, time.Now())
	return transport.CheckResponse{
		EntityID:      client.ID,
		MissingFields: missing,
		TodosCreated:  created,
	}, nil
}

// ScanClients runs the watchdog over every active client. Per-client failures
// are isolated: a bad row is logged and skipped, not fatal to the batch.
func (s *Service) ScanClients(ctx context.Context) (transport.ScanResponse, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return transport.ScanResponse{}, err
	}

	now := time.Now()
	result := transport.ScanResponse{Scanned: len(clients)}
	for _, client := range clients {
		missing, created := s.createContactTodos(ctx, client, now)
		if len(missing) > 0 {
			result.Incomplete++
		}
		result.TodosCreated += created
	}

	s.log.Info("completeness scan finished",
		"scanned", result.Scanned,
		"incomplete", result.Incomplete,
		"todosCreated", result.TodosCreated)
	return result, nil
}

// ResolveClientTodos closes the open follow-up items for a client once its
// required fields are confirmed complete.
func (s *Service) ResolveClientTodos(ctx context.Context, clientID uuid.UUID) (transport.ResolveResponse, error) {
	client, err := s.repo.GetClient(ctx, clientID)
	if err != nil {
		return transport.ResolveResponse{}, err
	}

	if missing := MissingClientFields(client); len(missing) > 0 {
		return transport.ResolveResponse{}, apperr.Validation(
			"required fields still missing: " + strings.Join(missing, ", "))
	}

	completed, err := s.repo.CompleteOpenTodos(ctx, entityTypeClient, clientID)
	if err != nil {
		return transport.ResolveResponse{}, err
	}
	return transport.ResolveResponse{Completed: completed}, nil
}

// createContactTodos detects missing fields and creates at most one pending
// follow-up item per responsible user. Returns the missing labels and how many
// items were created.
func (s *Service) createContactTodos(ctx context.Context, client repository.Client, now time.Time) ([]string, int) {
	missing := MissingClientFields(client)
	if len(missing) == 0 {
		// Field data is complete; close out any still-open follow-ups.
		if _, err := s.repo.CompleteOpenTodos(ctx, entityTypeClient, client.ID); err != nil {
			s.log.Error("failed to close completed follow-ups", "clientId", client.ID, "error", err)
		}
		return missing, 0
	}

	admins, err := s.repo.ListAdmins(ctx)
	if err != nil {
		s.log.Error("completeness check skipped: cannot resolve responsible users",
			"clientId", client.ID, "error", err)
		return missing, 0
	}

	priority := "medium"
	if len(missing) > highPriorityThreshold {
		priority = "high"
	}

	created := 0
	for _, admin := range admins {
		exists, err := s.repo.HasOpenTodo(ctx, entityTypeClient, client.ID, admin.ID)
		if err != nil {
			// When the dedup check cannot run, skip creation rather than risk
			// unbounded duplicates.
			s.log.Error("follow-up dedup check failed, skipping creation",
				"clientId", client.ID, "assigneeId", admin.ID, "error", err)
			continue
		}
		if exists {
			continue
		}

		todoID, err := s.repo.CreateTodo(ctx, repository.CreateTodoParams{
			EntityType:    entityTypeClient,
			EntityID:      client.ID,
			AssigneeID:    admin.ID,
			Title:         fmt.Sprintf("Complete contact details for %s", client.Name),
			Description:   "Missing: " + strings.Join(missing, ", "),
			MissingFields: missing,
			Priority:      priority,
			DueAt:         now.AddDate(0, 0, todoDueDays),
		})
		if err != nil {
			s.log.Error("failed to create follow-up item",
				"clientId", client.ID, "assigneeId", admin.ID, "error", err)
			continue
		}

		created++
		metrics.CompletenessTodosCreated.Inc()
		s.bus.Publish(ctx, events.CompletenessTodoCreated{
			BaseEvent:     events.NewBaseEvent(),
			TodoID:        todoID,
			ClientID:      client.ID,
			ClientName:    client.Name,
			AssigneeID:    admin.ID,
			AssigneeEmail: admin.Email,
			MissingFields: missing,
			Priority:      priority,
		})
	}

	return missing, created
}
