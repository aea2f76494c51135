// Package repository provides last-contact reads for the cadence scheduler.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContactRow is one entity with its most recent contact moment. When an entity
// has no recorded interaction yet, LastContactAt falls back to its creation time.
type ContactRow struct {
	EntityType    string
	EntityID      uuid.UUID
	Name          string
	Phone         string
	LastContactAt time.Time
}

// Repository is the storage contract for contact cadence computation.
type Repository interface {
	// LastContacts returns the last-contact rows for the requested entity types
	// ("client", "candidate").
	LastContacts(ctx context.Context, entityTypes []string) ([]ContactRow, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contacts repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// LastContacts returns one row per active entity of the requested types.
// The latest interaction timestamp is folded in via COALESCE so entities that
// were never contacted use their creation time.
func (r *Repo) LastContacts(ctx context.Context, entityTypes []string) ([]ContactRow, error) {
	query := `
		SELECT entity_type, entity_id, name, phone, last_contact_at
		FROM (
			SELECT
				'client' AS entity_type,
				c.id AS entity_id,
				c.name AS name,
				COALESCE(c.contact_phone, '') AS phone,
				COALESCE(
					(SELECT MAX(i.occurred_at) FROM interactions i
						WHERE i.entity_type = 'client' AND i.entity_id = c.id),
					c.created_at
				) AS last_contact_at
			FROM clients c
			WHERE c.status = 'active'

			UNION ALL

			SELECT
				'candidate' AS entity_type,
				ca.id AS entity_id,
				ca.full_name AS name,
				COALESCE(ca.phone, '') AS phone,
				COALESCE(
					(SELECT MAX(i.occurred_at) FROM interactions i
						WHERE i.entity_type = 'candidate' AND i.entity_id = ca.id),
					ca.created_at
				) AS last_contact_at
			FROM candidates ca
			WHERE ca.status = 'active'
		) contacts
		WHERE entity_type = ANY($1)`

	rows, err := r.pool.Query(ctx, query, entityTypes)
	if err != nil {
		return nil, fmt.Errorf("last contacts: %w", err)
	}
	defer rows.Close()

	var results []ContactRow
	for rows.Next() {
		var row ContactRow
		if err := rows.Scan(&row.EntityType, &row.EntityID, &row.Name, &row.Phone, &row.LastContactAt); err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
