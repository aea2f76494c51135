package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PipelineCounts holds the event counts for one time window.
type PipelineCounts struct {
	NewCandidates int
	NewVacancies  int
	PhoneCalls    int
	Interviews    int
	Offers        int
	Placements    int
}

// Task is a pending task row for the dashboard task list.
type Task struct {
	ID       uuid.UUID
	Title    string
	DueAt    time.Time
	Priority string
}

// VacancyRef identifies a vacancy in an alert.
type VacancyRef struct {
	ID    uuid.UUID
	Title string
}

// Repository is the read-only storage contract for dashboard composition.
type Repository interface {
	// CountsInWindow returns pipeline event counts inside [start, end).
	CountsInWindow(ctx context.Context, start, end time.Time) (PipelineCounts, error)
	// CountCandidatesBefore returns the number of candidates created before end.
	CountCandidatesBefore(ctx context.Context, end time.Time) (int, error)
	// DueTasks returns the viewer's pending tasks due inside [from, to), sorted by due time.
	DueTasks(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Task, error)
	// RealizedRevenueCents sums placement margins for placements made inside [start, end).
	RealizedRevenueCents(ctx context.Context, start, end time.Time) (int64, error)
	// OpenOfferValueCents sums expected margins of links currently in the offer stage.
	OpenOfferValueCents(ctx context.Context) (int64, error)
	// OpenVacanciesWithoutCandidates returns open vacancies with no linked candidates.
	OpenVacanciesWithoutCandidates(ctx context.Context) ([]VacancyRef, error)
	// CountStaleLinks counts candidate-vacancy links without activity since the cutoff.
	CountStaleLinks(ctx context.Context, cutoff time.Time) (int, error)
	// RecruiterKPIs returns recruiter-scoped key figures for the viewer.
	RecruiterKPIs(ctx context.Context, userID uuid.UUID, weekStart, monthStart time.Time) (map[string]int64, error)
	// FieldManagerKPIs returns field-manager-scoped key figures.
	FieldManagerKPIs(ctx context.Context) (map[string]int64, error)
}
