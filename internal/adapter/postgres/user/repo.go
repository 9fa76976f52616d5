// Package user implements the User repository using PostgreSQL.
package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/rolltime/backend/internal/adapter/postgres"
	"github.com/rolltime/backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `id, username, email, password_hash, active_workspace_id, created_at, updated_at`

const createSQL = `
INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
RETURNING ` + userColumns

const getByIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

const getByUsernameSQL = `
SELECT ` + userColumns + `
FROM users
WHERE username = $1`

const getByEmailSQL = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1`

// Row lock serializing tracking transitions per user; held until the
// surrounding transaction commits.
const getForUpdateSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
FOR UPDATE`

const setActiveWorkspaceSQL = `
UPDATE users
SET active_workspace_id = $2, updated_at = now()
WHERE id = $1`

// Create inserts a new user. Returns domain.ErrAlreadyExists when the
// username or email is taken.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL, u.ID, u.Username, u.Email, u.PasswordHash)

	created, err := scanUser(row)
	if err != nil {
		return nil, mapError(err, u.ID)
	}

	return created, nil
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, mapError(err, id)
	}

	return u, nil
}

// GetByUsername returns a user by unique username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(querier.QueryRow(ctx, getByUsernameSQL, username))
	if err != nil {
		return nil, mapError(err, uuid.Nil)
	}

	return u, nil
}

// GetByEmail returns a user by unique email.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(querier.QueryRow(ctx, getByEmailSQL, email))
	if err != nil {
		return nil, mapError(err, uuid.Nil)
	}

	return u, nil
}

// GetForUpdate returns the user with its row locked for the duration of
// the transaction in ctx. Every tracking transition takes this lock first
// so concurrent transitions for the same user serialize.
func (r *Repo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	u, err := scanUser(querier.QueryRow(ctx, getForUpdateSQL, id))
	if err != nil {
		return nil, mapError(err, id)
	}

	return u, nil
}

// SetActiveWorkspace updates the user's active workspace pointer.
func (r *Repo) SetActiveWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setActiveWorkspaceSQL, userID, workspaceID)
	if err != nil {
		return mapError(err, userID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.ActiveWorkspaceID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
