package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new dashboard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CountsInWindow returns pipeline event counts inside [start, end).
// One round trip; each count is an independent subselect.
func (r *Repo) CountsInWindow(ctx context.Context, start, end time.Time) (PipelineCounts, error) {
	query := `
		SELECT
			(
				SELECT COUNT(*)
				FROM candidates
				WHERE created_at >= $1 AND created_at < $2
			) AS new_candidates,
			(
				SELECT COUNT(*)
				FROM vacancies
				WHERE created_at >= $1 AND created_at < $2
			) AS new_vacancies,
			(
				SELECT COUNT(*)
				FROM interactions
				WHERE channel = 'phone'
					AND occurred_at >= $1 AND occurred_at < $2
			) AS phone_calls,
			(
				SELECT COUNT(*)
				FROM candidate_vacancy_links
				WHERE stage = 'interview'
					AND stage_changed_at >= $1 AND stage_changed_at < $2
			) AS interviews,
			(
				SELECT COUNT(*)
				FROM candidate_vacancy_links
				WHERE stage IN ('offer', 'contracting')
					AND stage_changed_at >= $1 AND stage_changed_at < $2
			) AS offers,
			(
				SELECT COUNT(*)
				FROM placements
				WHERE placed_at >= $1 AND placed_at < $2
			) AS placements`

	var counts PipelineCounts
	err := r.pool.QueryRow(ctx, query, start, end).Scan(
		&counts.NewCandidates,
		&counts.NewVacancies,
		&counts.PhoneCalls,
		&counts.Interviews,
		&counts.Offers,
		&counts.Placements,
	)
	if err != nil {
		return PipelineCounts{}, fmt.Errorf("counts in window: %w", err)
	}
	return counts, nil
}

// CountCandidatesBefore returns the number of candidates created before end.
func (r *Repo) CountCandidatesBefore(ctx context.Context, end time.Time) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM candidates WHERE created_at < $1`, end,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count candidates before: %w", err)
	}
	return total, nil
}

// DueTasks returns the viewer's pending tasks due inside [from, to), soonest first.
func (r *Repo) DueTasks(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, due_at, priority
		FROM tasks
		WHERE assignee_id = $1
			AND status = 'pending'
			AND due_at >= $2 AND due_at < $3
		ORDER BY due_at ASC`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("due tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.DueAt, &t.Priority); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// RealizedRevenueCents sums placement margins for placements made inside [start, end).
func (r *Repo) RealizedRevenueCents(ctx context.Context, start, end time.Time) (int64, error) {
	var cents int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(margin_cents), 0)
		FROM placements
		WHERE placed_at >= $1 AND placed_at < $2`,
		start, end).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("realized revenue: %w", err)
	}
	return cents, nil
}

// OpenOfferValueCents sums expected margins of links currently in the offer stage.
func (r *Repo) OpenOfferValueCents(ctx context.Context) (int64, error) {
	var cents int64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(v.expected_margin_cents), 0)
		FROM candidate_vacancy_links l
		JOIN vacancies v ON v.id = l.vacancy_id
		WHERE l.stage IN ('offer', 'contracting')`,
	).Scan(&cents)
	if err != nil {
		return 0, fmt.Errorf("open offer value: %w", err)
	}
	return cents, nil
}

// OpenVacanciesWithoutCandidates returns open vacancies with no linked candidates.
func (r *Repo) OpenVacanciesWithoutCandidates(ctx context.Context) ([]VacancyRef, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT v.id, v.title
		FROM vacancies v
		WHERE v.status = 'open'
			AND NOT EXISTS (
				SELECT 1 FROM candidate_vacancy_links l WHERE l.vacancy_id = v.id
			)
		ORDER BY v.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("vacancies without candidates: %w", err)
	}
	defer rows.Close()

	var refs []VacancyRef
	for rows.Next() {
		var ref VacancyRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, fmt.Errorf("scan vacancy ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// CountStaleLinks counts candidate-vacancy links without activity since the cutoff.
func (r *Repo) CountStaleLinks(ctx context.Context, cutoff time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM candidate_vacancy_links
		WHERE stage NOT IN ('placed', 'rejected')
			AND last_activity_at < $1`,
		cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stale links: %w", err)
	}
	return count, nil
}

// RecruiterKPIs returns recruiter-scoped key figures for the viewer.
func (r *Repo) RecruiterKPIs(ctx context.Context, userID uuid.UUID, weekStart, monthStart time.Time) (map[string]int64, error) {
	query := `
		SELECT
			(
				SELECT COUNT(*)
				FROM candidates
				WHERE owner_id = $1 AND status = 'active'
			) AS active_candidates,
			(
				SELECT COUNT(*)
				FROM candidate_vacancy_links l
				JOIN candidates c ON c.id = l.candidate_id
				WHERE c.owner_id = $1
					AND l.stage = 'interview'
					AND l.stage_changed_at >= $2
			) AS interviews_this_week,
			(
				SELECT COUNT(*)
				FROM placements p
				JOIN candidates c ON c.id = p.candidate_id
				WHERE c.owner_id = $1 AND p.placed_at >= $3
			) AS placements_this_month`

	var active, interviews, placements int64
	err := r.pool.QueryRow(ctx, query, userID, weekStart, monthStart).Scan(&active, &interviews, &placements)
	if err != nil {
		return nil, fmt.Errorf("recruiter kpis: %w", err)
	}
	return map[string]int64{
		"activeCandidates":    active,
		"interviewsThisWeek":  interviews,
		"placementsThisMonth": placements,
	}, nil
}

// FieldManagerKPIs returns field-manager-scoped key figures.
func (r *Repo) FieldManagerKPIs(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT
			(
				SELECT COUNT(*) FROM clients WHERE status = 'active'
			) AS active_clients,
			(
				SELECT COUNT(*) FROM vacancies WHERE status = 'open'
			) AS open_vacancies,
			(
				SELECT COUNT(*) FROM placements WHERE ends_at >= NOW()
			) AS running_placements`

	var clients, vacancies, placements int64
	err := r.pool.QueryRow(ctx, query).Scan(&clients, &vacancies, &placements)
	if err != nil {
		return nil, fmt.Errorf("field manager kpis: %w", err)
	}
	return map[string]int64{
		"activeClients":     clients,
		"openVacancies":     vacancies,
		"runningPlacements": placements,
	}, nil
}
