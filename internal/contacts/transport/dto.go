// Package transport defines response DTOs for the contacts module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CadenceItemResponse is one due or near-due contact obligation.
type CadenceItemResponse struct {
	EntityType       string    `json:"entityType"`
	EntityID         uuid.UUID `json:"entityId"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone,omitempty"`
	LastContactAt    time.Time `json:"lastContactAt"`
	DaysSinceContact int       `json:"daysSinceContact"`
	CadenceDays      int       `json:"cadenceDays"`
	NextDueAt        time.Time `json:"nextDueAt"`
	IsOverdue        bool      `json:"isOverdue"`
}

// DueListResponse is the role-scoped due list, soonest due first.
type DueListResponse struct {
	Items []CadenceItemResponse `json:"items"`
	Total int                   `json:"total"`
}
