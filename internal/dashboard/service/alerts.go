package service

import (
	"context"
	"fmt"
	"time"

	"staffing_ops_backend/internal/dashboard/transport"
)

const staleLinkAge = 7 * 24 * time.Hour

// DeriveAlerts scans current state for anomaly conditions. The scan is
// read-only and idempotent: alert ids are derived from subject and rule so
// repeated scans yield identical identities and consumers can dedup.
func (s *Service) DeriveAlerts(ctx context.Context, now time.Time) ([]transport.AlertResponse, error) {
	alerts := make([]transport.AlertResponse, 0)

	vacancies, err := s.repo.OpenVacanciesWithoutCandidates(ctx)
	if err != nil {
		return nil, err
	}
	for _, vacancy := range vacancies {
		vacancyID := vacancy.ID
		alerts = append(alerts, transport.AlertResponse{
			ID:          "vacancy-no-candidates-" + vacancyID.String(),
			Kind:        "warning",
			Title:       "Vacancy without candidates",
			Description: fmt.Sprintf("%q is open but has no linked candidates.", vacancy.Title),
			Priority:    "high",
			SubjectType: "vacancy",
			SubjectID:   &vacancyID,
		})
	}

	staleCount, err := s.repo.CountStaleLinks(ctx, now.Add(-staleLinkAge))
	if err != nil {
		return nil, err
	}
	// One aggregate alert regardless of how many links are stale, so alert
	// volume stays independent of pipeline size.
	if staleCount > 0 {
		alerts = append(alerts, transport.AlertResponse{
			ID:          "pipeline-stalled",
			Kind:        "warning",
			Title:       "Stalled pipeline",
			Description: fmt.Sprintf("%d candidate-vacancy links had no activity for over 7 days.", staleCount),
			Priority:    "medium",
		})
	}

	return alerts, nil
}
