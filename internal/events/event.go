// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"staffing_ops_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// CRM Sync Domain Events
// =============================================================================

// CRMSyncCompleted is published when a full external CRM sync finishes successfully.
type CRMSyncCompleted struct {
	BaseEvent
	DurationMs int64 `json:"durationMs"`
}

func (e CRMSyncCompleted) EventName() string { return "crm.sync.completed" }

// CRMSyncFailed is published when a full external CRM sync fails.
type CRMSyncFailed struct {
	BaseEvent
	Reason string `json:"reason"`
}

func (e CRMSyncFailed) EventName() string { return "crm.sync.failed" }

// VacancyMatchesRecomputed is published after the post-sync recomputation pass
// over all open vacancies, whether or not individual vacancies failed.
type VacancyMatchesRecomputed struct {
	BaseEvent
	Recomputed int `json:"recomputed"`
	Failed     int `json:"failed"`
}

func (e VacancyMatchesRecomputed) EventName() string { return "crm.matches.recomputed" }

// =============================================================================
// Completeness Domain Events
// =============================================================================

// CompletenessTodoCreated is published when the data-completeness watchdog
// creates a follow-up work item for a responsible user.
type CompletenessTodoCreated struct {
	BaseEvent
	TodoID        uuid.UUID `json:"todoId"`
	ClientID      uuid.UUID `json:"clientId"`
	ClientName    string    `json:"clientName"`
	AssigneeID    uuid.UUID `json:"assigneeId"`
	AssigneeEmail string    `json:"assigneeEmail"`
	MissingFields []string  `json:"missingFields"`
	Priority      string    `json:"priority"`
}

func (e CompletenessTodoCreated) EventName() string { return "completeness.todo.created" }
