// Package transport defines request and response DTOs for the completeness module.
package transport

import "github.com/google/uuid"

// CheckResponse reports the watchdog result for one entity.
type CheckResponse struct {
	EntityID      uuid.UUID `json:"entityId"`
	MissingFields []string  `json:"missingFields"`
	TodosCreated  int       `json:"todosCreated"`
}

// ScanResponse aggregates one batch watchdog pass.
type ScanResponse struct {
	Scanned      int `json:"scanned"`
	Incomplete   int `json:"incomplete"`
	TodosCreated int `json:"todosCreated"`
}

// ResolveResponse reports how many open follow-up items were closed.
type ResolveResponse struct {
	Completed int `json:"completed"`
}
