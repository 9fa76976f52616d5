// Package activity implements the Activity repository using PostgreSQL.
package activity

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

// Repo provides activity persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const activityColumns = `a.id, a.workspace_id, a.name, a.description, a.color, a.side_id, a.created_at, a.updated_at`

const createSQL = `
INSERT INTO activities AS a (id, workspace_id, name, description, color, side_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
RETURNING ` + activityColumns

const getByIDSQL = `
SELECT ` + activityColumns + `
FROM activities a
JOIN workspaces w ON w.id = a.workspace_id
WHERE a.id = $1 AND w.user_id = $2`

const listByWorkspaceSQL = `
SELECT ` + activityColumns + `
FROM activities a
JOIN workspaces w ON w.id = a.workspace_id
WHERE a.workspace_id = $1 AND w.user_id = $2
ORDER BY a.created_at`

const updateSQL = `
UPDATE activities AS a
SET name = $3, description = $4, color = $5, updated_at = now()
FROM workspaces w
WHERE a.id = $1 AND w.id = a.workspace_id AND w.user_id = $2
RETURNING ` + activityColumns

const deleteSQL = `
DELETE FROM activities a
USING workspaces w
WHERE a.id = $1 AND w.id = a.workspace_id AND w.user_id = $2`

// resolveSideSQL resolves a hardware side within the user's currently
// active workspace.
const resolveSideSQL = `
SELECT ` + activityColumns + `
FROM activities a
JOIN users u ON u.active_workspace_id = a.workspace_id
WHERE u.id = $1 AND a.side_id = $2`

// resolveSideInSQL resolves a hardware side within an explicit workspace.
const resolveSideInSQL = `
SELECT ` + activityColumns + `
FROM activities a
WHERE a.workspace_id = $1 AND a.side_id = $2`

// clearSideSQL vacates a side on whichever activity in the workspace
// currently holds it.
const clearSideSQL = `
UPDATE activities
SET side_id = NULL, updated_at = now()
WHERE workspace_id = $1 AND side_id = $2`

const assignSideSQL = `
UPDATE activities AS a
SET side_id = $3, updated_at = now()
FROM workspaces w
WHERE a.id = $1 AND w.id = a.workspace_id AND w.user_id = $2
RETURNING ` + activityColumns

const unassignSideSQL = `
UPDATE activities AS a
SET side_id = NULL, updated_at = now()
FROM workspaces w
WHERE a.id = $1 AND w.id = a.workspace_id AND w.user_id = $2
RETURNING ` + activityColumns

// getActiveSQL returns the activity of the user's open time entry, if any.
const getActiveSQL = `
SELECT ` + activityColumns + `
FROM activities a
JOIN time_entries te ON te.activity_id = a.id
WHERE te.user_id = $1 AND te.end_time IS NULL`

// Create inserts a new activity.
func (r *Repo) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL, a.ID, a.WorkspaceID, a.Name, a.Description, a.Color, a.SideID)

	created, err := scanActivity(row)
	if err != nil {
		return nil, mapError(err, a.ID)
	}

	return created, nil
}

// GetByID returns an activity by primary key, scoped to the owning user
// through the workspace join.
func (r *Repo) GetByID(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(querier.QueryRow(ctx, getByIDSQL, activityID, userID))
	if err != nil {
		return nil, mapError(err, activityID)
	}

	return a, nil
}

// ListByWorkspace returns all activities of a workspace owned by the user.
func (r *Repo) ListByWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) ([]*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByWorkspaceSQL, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("list activities: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	return activities, nil
}

// Update changes an activity's name, description and color.
func (r *Repo) Update(ctx context.Context, userID, activityID uuid.UUID, name, description string, color int) (*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(querier.QueryRow(ctx, updateSQL, activityID, userID, name, description, color))
	if err != nil {
		return nil, mapError(err, activityID)
	}

	return a, nil
}

// Delete removes an activity along with its time entries (cascade).
func (r *Repo) Delete(ctx context.Context, userID, activityID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, activityID, userID)
	if err != nil {
		return mapError(err, activityID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("activity %s: %w", activityID, domain.ErrNotFound)
	}

	return nil
}

// ResolveSide finds the activity bound to a hardware side in the user's
// active workspace. Returns domain.ErrNotFound when the side is unbound
// or no workspace is active.
func (r *Repo) ResolveSide(ctx context.Context, userID uuid.UUID, side int) (*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(querier.QueryRow(ctx, resolveSideSQL, userID, side))
	if err != nil {
		return nil, mapError(err, uuid.Nil)
	}

	return a, nil
}

// ResolveSideIn finds the activity bound to a hardware side in an explicit
// workspace. Used when switching workspaces, before the active workspace
// pointer moves.
func (r *Repo) ResolveSideIn(ctx context.Context, workspaceID uuid.UUID, side int) (*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(querier.QueryRow(ctx, resolveSideInSQL, workspaceID, side))
	if err != nil {
		return nil, mapError(err, uuid.Nil)
	}

	return a, nil
}

// AssignSide binds a hardware side to the activity, vacating the side on
// any other activity in the same workspace first. Must run inside a
// transaction so the two updates are atomic.
func (r *Repo) AssignSide(ctx context.Context, userID, activityID uuid.UUID, side int) (*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	target, err := scanActivity(querier.QueryRow(ctx, getByIDSQL, activityID, userID))
	if err != nil {
		return nil, mapError(err, activityID)
	}

	if _, err := querier.Exec(ctx, clearSideSQL, target.WorkspaceID, side); err != nil {
		return nil, mapError(err, activityID)
	}

	a, err := scanActivity(querier.QueryRow(ctx, assignSideSQL, activityID, userID, side))
	if err != nil {
		return nil, mapError(err, activityID)
	}

	return a, nil
}

// UnassignSide removes the side binding from the activity.
func (r *Repo) UnassignSide(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(querier.QueryRow(ctx, unassignSideSQL, activityID, userID))
	if err != nil {
		return nil, mapError(err, activityID)
	}

	return a, nil
}

// GetActive returns the activity of the user's currently open time entry.
// Returns domain.ErrNotFound when nothing is being tracked.
func (r *Repo) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Activity, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(querier.QueryRow(ctx, getActiveSQL, userID))
	if err != nil {
		return nil, mapError(err, uuid.Nil)
	}

	return a, nil
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var a domain.Activity
	err := row.Scan(
		&a.ID,
		&a.WorkspaceID,
		&a.Name,
		&a.Description,
		&a.Color,
		&a.SideID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	ref := "activity"
	if id != uuid.Nil {
		ref = fmt.Sprintf("activity %s", id)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", ref, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", ref, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", ref, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", ref, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", ref, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s: %w", ref, err)
}
