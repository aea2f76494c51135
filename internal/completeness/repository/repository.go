// Package repository provides storage access for the data-completeness watchdog.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staffing_ops_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Client is the subset of client attributes the watchdog inspects.
type Client struct {
	ID           uuid.UUID
	Name         string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
}

// User is a responsible user who receives follow-up work items.
type User struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

// CreateTodoParams describes a new follow-up work item.
type CreateTodoParams struct {
	EntityType    string
	EntityID      uuid.UUID
	AssigneeID    uuid.UUID
	Title         string
	Description   string
	MissingFields []string
	Priority      string
	DueAt         time.Time
}

// Repository is the storage contract for the completeness watchdog.
type Repository interface {
	GetClient(ctx context.Context, id uuid.UUID) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	// ListAdmins returns all users holding the administrative role.
	ListAdmins(ctx context.Context) ([]User, error)
	// HasOpenTodo reports whether a pending follow-up item already references
	// the entity for the given assignee.
	HasOpenTodo(ctx context.Context, entityType string, entityID, assigneeID uuid.UUID) (bool, error)
	CreateTodo(ctx context.Context, params CreateTodoParams) (uuid.UUID, error)
	// CompleteOpenTodos marks all pending follow-up items for the entity
	// completed and returns how many were closed.
	CompleteOpenTodos(ctx context.Context, entityType string, entityID uuid.UUID) (int, error)
}

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new completeness repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetClient retrieves one client by id.
func (r *Repo) GetClient(ctx context.Context, id uuid.UUID) (Client, error) {
	var client Client
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, contact_name, contact_email, contact_phone
		FROM clients
		WHERE id = $1`, id,
	).Scan(&client.ID, &client.Name, &client.ContactName, &client.ContactEmail, &client.ContactPhone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound("client not found")
		}
		return Client{}, fmt.Errorf("get client: %w", err)
	}
	return client, nil
}

// ListClients returns all active clients.
func (r *Repo) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, contact_name, contact_email, contact_phone
		FROM clients
		WHERE status = 'active'
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var client Client
		if err := rows.Scan(&client.ID, &client.Name, &client.ContactName, &client.ContactEmail, &client.ContactPhone); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

// ListAdmins returns all users holding the administrative role.
func (r *Repo) ListAdmins(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, full_name
		FROM users
		WHERE role = 'admin' AND active = true
		ORDER BY email ASC`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// HasOpenTodo reports whether a pending follow-up item already references the
// entity for the given assignee.
func (r *Repo) HasOpenTodo(ctx context.Context, entityType string, entityID, assigneeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM followup_todos
			WHERE entity_type = $1 AND entity_id = $2 AND assignee_id = $3
				AND status = 'pending'
		)`, entityType, entityID, assigneeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open todo: %w", err)
	}
	return exists, nil
}

// CreateTodo inserts a new pending follow-up work item.
func (r *Repo) CreateTodo(ctx context.Context, params CreateTodoParams) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO followup_todos
			(id, entity_type, entity_id, assignee_id, title, description, missing_fields, priority, status, due_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9, NOW())`,
		id, params.EntityType, params.EntityID, params.AssigneeID,
		params.Title, params.Description, params.MissingFields, params.Priority, params.DueAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create todo: %w", err)
	}
	return id, nil
}

// CompleteOpenTodos marks all pending follow-up items for the entity completed.
func (r *Repo) CompleteOpenTodos(ctx context.Context, entityType string, entityID uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE followup_todos
		SET status = 'completed', completed_at = NOW()
		WHERE entity_type = $1 AND entity_id = $2 AND status = 'pending'`,
		entityType, entityID)
	if err != nil {
		return 0, fmt.Errorf("complete open todos: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
