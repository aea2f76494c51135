// Package repository provides sync-run bookkeeping and match-score storage
// for the CRM synchronization module.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sync run statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// SyncRun is one persisted external synchronization attempt.
type SyncRun struct {
	ID          uuid.UUID
	Status      string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// Repository is the storage contract for the sync orchestrator.
type Repository interface {
	// LatestCompletedSyncRun returns the most recent completed run, or nil
	// when no sync has ever completed.
	LatestCompletedSyncRun(ctx context.Context) (*SyncRun, error)
	// RecentSyncRuns returns the most recent runs, newest first.
	RecentSyncRuns(ctx context.Context, limit int) ([]SyncRun, error)
	// CreateSyncRun inserts a new running sync-run record.
	CreateSyncRun(ctx context.Context) (uuid.UUID, error)
	// FinishSyncRun marks the run completed or failed and stamps completion time.
	FinishSyncRun(ctx context.Context, id uuid.UUID, status string) error
	// ListOpenVacancyIDs returns the ids of all open vacancies.
	ListOpenVacancyIDs(ctx context.Context) ([]uuid.UUID, error)
	// RecomputeVacancyMatches recomputes and caches candidate-match scores for
	// one vacancy. The scoring model is opaque to callers and may be slow.
	RecomputeVacancyMatches(ctx context.Context, vacancyID uuid.UUID) error
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new crmsync repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// LatestCompletedSyncRun returns the most recent completed run, or nil when none exists.
func (r *Repo) LatestCompletedSyncRun(ctx context.Context) (*SyncRun, error) {
	var run SyncRun
	err := r.pool.QueryRow(ctx, `
		SELECT id, status, started_at, completed_at
		FROM sync_runs
		WHERE status = 'completed'
		ORDER BY completed_at DESC
		LIMIT 1`,
	).Scan(&run.ID, &run.Status, &run.StartedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest completed sync run: %w", err)
	}
	return &run, nil
}

// RecentSyncRuns returns the most recent runs, newest first.
func (r *Repo) RecentSyncRuns(ctx context.Context, limit int) ([]SyncRun, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, status, started_at, completed_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sync runs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		var run SyncRun
		if err := rows.Scan(&run.ID, &run.Status, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CreateSyncRun inserts a new running sync-run record.
func (r *Repo) CreateSyncRun(ctx context.Context) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sync_runs (id, status, started_at)
		VALUES ($1, 'running', NOW())`, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create sync run: %w", err)
	}
	return id, nil
}

// FinishSyncRun marks the run completed or failed and stamps completion time.
func (r *Repo) FinishSyncRun(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE sync_runs
		SET status = $2, completed_at = NOW()
		WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("finish sync run: %w", err)
	}
	return nil
}

// ListOpenVacancyIDs returns the ids of all open vacancies, oldest first so
// long-standing vacancies are recomputed before fresh ones.
func (r *Repo) ListOpenVacancyIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM vacancies
		WHERE status = 'open'
		ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list open vacancies: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan vacancy id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecomputeVacancyMatches recomputes and caches candidate-match scores for one
// vacancy. Scores are replaced wholesale so a recompute is idempotent.
func (r *Repo) RecomputeVacancyMatches(ctx context.Context, vacancyID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin match recompute: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM vacancy_match_scores WHERE vacancy_id = $1`, vacancyID); err != nil {
		return fmt.Errorf("clear match scores: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO vacancy_match_scores (vacancy_id, candidate_id, score, computed_at)
		SELECT
			v.id,
			c.id,
			LEAST(100, (
				SELECT COUNT(*) * 25
				FROM unnest(c.skills) skill
				WHERE skill = ANY(v.required_skills)
			)),
			NOW()
		FROM vacancies v
		CROSS JOIN candidates c
		WHERE v.id = $1
			AND c.status = 'active'`, vacancyID)
	if err != nil {
		return fmt.Errorf("insert match scores: %w", err)
	}

	return tx.Commit(ctx)
}
