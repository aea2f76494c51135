// Package service computes contact cadences: how often an entity must be
// contacted given how long it has gone without contact, and which entities are
// due or overdue for a follow-up.
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"staffing_ops_backend/internal/contacts/repository"
	"staffing_ops_backend/internal/contacts/transport"
	"staffing_ops_backend/platform/httpkit"
	"staffing_ops_backend/platform/logger"
	"staffing_ops_backend/platform/phone"
)

// Cadence tiers in days. The tier tightens as an entity goes longer without
// contact, front-loading attention on neglected relationships.
const (
	cadenceMonthly   = 30 // default tier
	cadenceBiWeekly  = 14
	cadenceQuarterly = 90

	dueSoonHorizonDays = 7
)

// Service provides contact cadence computation.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new contacts service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CadenceDays selects the required contact interval for an entity that has
// gone daysSinceContact days without contact. Boundaries are strict:
// exactly 14 or 90 days stays in the lower tier.
func CadenceDays(daysSinceContact int) int {
	switch {
	case daysSinceContact > 90:
		return cadenceQuarterly
	case daysSinceContact > 14:
		return cadenceBiWeekly
	default:
		return cadenceMonthly
	}
}

// buildItem derives the full cadence state for one contact row at one instant.
func buildItem(row repository.ContactRow, now time.Time) transport.CadenceItemResponse {
	daysSince := int(now.Sub(row.LastContactAt).Hours() / 24)
	if daysSince < 0 {
		daysSince = 0
	}
	cadence := CadenceDays(daysSince)
	nextDue := row.LastContactAt.AddDate(0, 0, cadence)

	return transport.CadenceItemResponse{
		EntityType:       row.EntityType,
		EntityID:         row.EntityID,
		Name:             row.Name,
		Phone:            phone.NormalizeE164(row.Phone),
		LastContactAt:    row.LastContactAt,
		DaysSinceContact: daysSince,
		CadenceDays:      cadence,
		NextDueAt:        nextDue,
		IsOverdue:        now.After(nextDue),
	}
}

// includeInDueList reports whether an item belongs on the due list: overdue,
// or due strictly within the next seven days. An item exactly seven days out
// is excluded.
func includeInDueList(item transport.CadenceItemResponse, now time.Time) bool {
	if item.IsOverdue {
		return true
	}
	return item.NextDueAt.Sub(now) < dueSoonHorizonDays*24*time.Hour
}

// DueList computes the role-scoped contact due list at the given instant,
// sorted ascending by next due date (overdue items naturally sort first),
// tie-broken by entity id.
func (s *Service) DueList(ctx context.Context, role string, now time.Time) (transport.DueListResponse, error) {
	rows, err := s.repo.LastContacts(ctx, entityTypesForRole(role))
	if err != nil {
		return transport.DueListResponse{}, err
	}

	items := make([]transport.CadenceItemResponse, 0, len(rows))
	for _, row := range rows {
		item := buildItem(row, now)
		if includeInDueList(item, now) {
			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].NextDueAt.Equal(items[j].NextDueAt) {
			return items[i].NextDueAt.Before(items[j].NextDueAt)
		}
		return strings.Compare(items[i].EntityID.String(), items[j].EntityID.String()) < 0
	})

	return transport.DueListResponse{Items: items, Total: len(items)}, nil
}

// DueCount returns the size of the role-scoped due list. Used by the
// dashboard composer as a KPI.
func (s *Service) DueCount(ctx context.Context, role string, now time.Time) (int, error) {
	list, err := s.DueList(ctx, role, now)
	if err != nil {
		return 0, err
	}
	return list.Total, nil
}

func entityTypesForRole(role string) []string {
	switch role {
	case httpkit.RoleRecruiter:
		return []string{"candidate"}
	case httpkit.RoleFieldManager:
		return []string{"client"}
	default:
		return []string{"client", "candidate"}
	}
}
