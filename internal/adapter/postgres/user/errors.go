package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rolltime/backend/internal/domain"
)

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("user %s: %w", id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("user %s: %w", id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("user %s: %w", id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("user %s: %w", id, err)
}
