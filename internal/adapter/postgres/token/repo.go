// Package token implements the refresh token repository using PostgreSQL.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/rolltime/backend/internal/adapter/postgres"
	"github.com/rolltime/backend/internal/domain"
)

// Repo provides refresh token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new refresh token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const tokenColumns = `id, user_id, token_hash, expires_at, created_at, revoked_at`

const createSQL = `
INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
VALUES ($1, $2, $3, $4, now())
RETURNING ` + tokenColumns

const getByHashSQL = `
SELECT ` + tokenColumns + `
FROM refresh_tokens
WHERE token_hash = $1`

const revokeByIDSQL = `
UPDATE refresh_tokens
SET revoked_at = now()
WHERE id = $1 AND revoked_at IS NULL`

const revokeAllByUserSQL = `
UPDATE refresh_tokens
SET revoked_at = now()
WHERE user_id = $1 AND revoked_at IS NULL`

const deleteExpiredSQL = `
DELETE FROM refresh_tokens
WHERE expires_at < $1`

// Create stores a new refresh token.
func (r *Repo) Create(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL, token.ID, token.UserID, token.TokenHash, token.ExpiresAt)

	created, err := scanToken(row)
	if err != nil {
		return nil, mapError(err)
	}

	return created, nil
}

// GetByHash looks up a token by its hash. Returns domain.ErrNotFound for
// unknown hashes.
func (r *Repo) GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	token, err := scanToken(querier.QueryRow(ctx, getByHashSQL, hash))
	if err != nil {
		return nil, mapError(err)
	}

	return token, nil
}

// RevokeByID marks a single token revoked. Revoking twice is a no-op.
func (r *Repo) RevokeByID(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, revokeByIDSQL, id); err != nil {
		return mapError(err)
	}

	return nil
}

// RevokeAllByUser revokes every live token of a user.
func (r *Repo) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, revokeAllByUserSQL, userID); err != nil {
		return mapError(err)
	}

	return nil
}

// DeleteExpired removes tokens that expired before the cutoff and returns
// how many were deleted.
func (r *Repo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteExpiredSQL, cutoff)
	if err != nil {
		return 0, mapError(err)
	}

	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (*domain.RefreshToken, error) {
	var token domain.RefreshToken
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
		&token.RevokedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("refresh token: %w", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("refresh token: %w", domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("refresh token: %w", domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("refresh token: %w", domain.ErrNotFound)
		}
	}

	return fmt.Errorf("refresh token: %w", err)
}
