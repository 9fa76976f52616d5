package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rolltime/backend/internal/domain"
)

// mapError converts pgx/pgconn errors to domain errors. ref identifies the
// row (usually a UUID string) for the error message; it may be empty.
// context.DeadlineExceeded and context.Canceled are NOT mapped and pass through.
func mapError(err error, entity string, ref string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, ref, err)
	}

	// pgx.ErrNoRows → domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, ref, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, ref, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, ref, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, ref, domain.ErrValidation)
		case "23P01": // exclusion_violation: one open interval per user
			return fmt.Errorf("%s %s: %w", entity, ref, domain.ErrConflict)
		case "40001": // serialization_failure
			return fmt.Errorf("%s %s: %w", entity, ref, domain.ErrConflict)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, ref, err)
}
