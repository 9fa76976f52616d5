// Package workspace implements the Workspace repository using PostgreSQL.
package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/rolltime/backend/internal/adapter/postgres"
	"github.com/rolltime/backend/internal/domain"
)

// Repo provides workspace persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new workspace repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const workspaceColumns = `id, user_id, name, description, is_default, created_at, updated_at`

const createSQL = `
INSERT INTO workspaces (id, user_id, name, description, is_default, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
RETURNING ` + workspaceColumns

const getByIDSQL = `
SELECT ` + workspaceColumns + `
FROM workspaces
WHERE id = $1 AND user_id = $2`

const listByUserSQL = `
SELECT ` + workspaceColumns + `
FROM workspaces
WHERE user_id = $1 AND ($2::text = '' OR name ILIKE '%' || $2 || '%')
ORDER BY created_at
LIMIT $3 OFFSET $4`

const updateSQL = `
UPDATE workspaces
SET name = $3, description = $4, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + workspaceColumns

// Deleting the default workspace is refused at the database level too;
// rows cascade to activities and their time entries.
const deleteSQL = `
DELETE FROM workspaces
WHERE id = $1 AND user_id = $2 AND NOT is_default`

// Create inserts a new workspace.
func (r *Repo) Create(ctx context.Context, ws *domain.Workspace) (*domain.Workspace, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL, ws.ID, ws.UserID, ws.Name, ws.Description, ws.IsDefault)

	created, err := scanWorkspace(row)
	if err != nil {
		return nil, mapError(err, ws.ID)
	}

	return created, nil
}

// GetByID returns a workspace by primary key scoped to its owner.
// Returns domain.ErrNotFound when the workspace belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ws, err := scanWorkspace(querier.QueryRow(ctx, getByIDSQL, workspaceID, userID))
	if err != nil {
		return nil, mapError(err, workspaceID)
	}

	return ws, nil
}

// ListByUser returns the user's workspaces with optional name search and
// offset/limit pagination, ordered by creation time.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, query string, limit, offset int) ([]*domain.Workspace, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByUserSQL, userID, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("list workspaces: %w", err)
		}
		workspaces = append(workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	return workspaces, nil
}

// Update renames a workspace. Returns domain.ErrNotFound when the
// workspace does not exist or belongs to another user.
func (r *Repo) Update(ctx context.Context, userID, workspaceID uuid.UUID, name, description string) (*domain.Workspace, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ws, err := scanWorkspace(querier.QueryRow(ctx, updateSQL, workspaceID, userID, name, description))
	if err != nil {
		return nil, mapError(err, workspaceID)
	}

	return ws, nil
}

// Delete removes a non-default workspace, cascading to its activities and
// time entries. Returns domain.ErrNotFound when nothing was deleted;
// callers distinguish the default-workspace case themselves.
func (r *Repo) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, workspaceID, userID)
	if err != nil {
		return mapError(err, workspaceID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", workspaceID, domain.ErrNotFound)
	}

	return nil
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var ws domain.Workspace
	err := row.Scan(
		&ws.ID,
		&ws.UserID,
		&ws.Name,
		&ws.Description,
		&ws.IsDefault,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("workspace %s: %w", id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("workspace %s: %w", id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
	}

	return fmt.Errorf("workspace %s: %w", id, err)
}
