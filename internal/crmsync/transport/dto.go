// Package transport defines response DTOs for the crmsync module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// SyncRunResponse is one persisted sync attempt.
type SyncRunResponse struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// SyncStatusResponse reports recent runs and whether a sync completed today.
type SyncStatusResponse struct {
	SyncedToday bool              `json:"syncedToday"`
	Runs        []SyncRunResponse `json:"runs"`
}

// EnqueueResponse acknowledges a queued manual sync.
type EnqueueResponse struct {
	Queued bool `json:"queued"`
}
