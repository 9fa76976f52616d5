// Package timeentry implements the time entry repository using PostgreSQL.
//
// Time entries double as tracking intervals: an entry with a NULL end_time
// is the user's open interval. A deferrable exclusion constraint guarantees
// at most one open entry per user at transaction commit, which lets a
// transition open the new interval before closing the previous one.
package timeentry

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/rolltime/backend/internal/adapter/postgres"
	"github.com/rolltime/backend/internal/domain"
)

// Repo provides time entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// New creates a new time entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const entryColumns = `te.id, te.activity_id, te.user_id, te.description, te.start_time, te.end_time, te.created_at`

const openSQL = `
INSERT INTO time_entries AS te (id, activity_id, user_id, description, start_time, end_time, created_at)
VALUES ($1, $2, $3, $4, $5, NULL, now())
RETURNING ` + entryColumns

const createSQL = `
INSERT INTO time_entries AS te (id, activity_id, user_id, description, start_time, end_time, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
RETURNING ` + entryColumns

const findOpenSQL = `
SELECT ` + entryColumns + `
FROM time_entries te
WHERE te.user_id = $1 AND te.end_time IS NULL`

// closeSQL only touches the row while it is still open, so closing an
// already closed entry is a no-op.
const closeSQL = `
UPDATE time_entries AS te
SET end_time = $2
WHERE te.id = $1 AND te.end_time IS NULL
RETURNING ` + entryColumns

const getByIDSQL = `
SELECT ` + entryColumns + `
FROM time_entries te
WHERE te.id = $1 AND te.user_id = $2`

const updateSQL = `
UPDATE time_entries AS te
SET activity_id = $3, description = $4, start_time = $5, end_time = $6
WHERE te.id = $1 AND te.user_id = $2
RETURNING ` + entryColumns

const deleteSQL = `
DELETE FROM time_entries
WHERE id = $1 AND user_id = $2`

// Open inserts a new open interval starting at the given moment.
func (r *Repo) Open(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, openSQL, entry.ID, entry.ActivityID, entry.UserID, entry.Description, entry.Start)

	created, err := scanEntry(row)
	if err != nil {
		return nil, mapError(err, entry.ID)
	}

	return created, nil
}

// Create inserts a complete entry, open or closed. Used by the history
// API for manual entries.
func (r *Repo) Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL, entry.ID, entry.ActivityID, entry.UserID, entry.Description, entry.Start, entry.End)

	created, err := scanEntry(row)
	if err != nil {
		return nil, mapError(err, entry.ID)
	}

	return created, nil
}

// FindOpen returns the user's open interval, or domain.ErrNotFound when
// nothing is being tracked.
func (r *Repo) FindOpen(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	entry, err := scanEntry(querier.QueryRow(ctx, findOpenSQL, userID))
	if err != nil {
		return nil, mapError(err, uuid.Nil)
	}

	return entry, nil
}

// Close stamps the end time on an interval identified by id, provided it
// is still open. Returns domain.ErrNotFound when the interval is missing
// or already closed, which callers treat as an idempotent stop.
func (r *Repo) Close(ctx context.Context, entryID uuid.UUID, end time.Time) (*domain.TimeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	entry, err := scanEntry(querier.QueryRow(ctx, closeSQL, entryID, end))
	if err != nil {
		return nil, mapError(err, entryID)
	}

	return entry, nil
}

// GetByID returns an entry by primary key scoped to its owner.
func (r *Repo) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.TimeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	entry, err := scanEntry(querier.QueryRow(ctx, getByIDSQL, entryID, userID))
	if err != nil {
		return nil, mapError(err, entryID)
	}

	return entry, nil
}

// Update rewrites an entry's activity, description and bounds.
func (r *Repo) Update(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateSQL, entry.ID, entry.UserID, entry.ActivityID, entry.Description, entry.Start, entry.End)

	updated, err := scanEntry(row)
	if err != nil {
		return nil, mapError(err, entry.ID)
	}

	return updated, nil
}

// Delete removes an entry.
func (r *Repo) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, entryID, userID)
	if err != nil {
		return mapError(err, entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("time entry %s: %w", entryID, domain.ErrNotFound)
	}

	return nil
}

// ListFilter narrows a history query. Zero values mean "no filter" except
// Limit, which callers must set.
type ListFilter struct {
	WorkspaceID uuid.UUID
	ActivityIDs []uuid.UUID
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

// List returns the user's entries matching the filter, newest first.
// Date-range filtering matches by overlap, so an open entry that started
// before the range still shows up inside it.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*domain.TimeEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	qb := r.sb.
		Select("te.id", "te.activity_id", "te.user_id", "te.description", "te.start_time", "te.end_time", "te.created_at").
		From("time_entries te").
		Where(sq.Eq{"te.user_id": userID}).
		OrderBy("te.start_time DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	if filter.WorkspaceID != uuid.Nil {
		qb = qb.
			Join("activities a ON a.id = te.activity_id").
			Where(sq.Eq{"a.workspace_id": filter.WorkspaceID})
	}
	if len(filter.ActivityIDs) > 0 {
		qb = qb.Where(sq.Eq{"te.activity_id": filter.ActivityIDs})
	}
	if !filter.From.IsZero() {
		qb = qb.Where(sq.Or{
			sq.Eq{"te.end_time": nil},
			sq.GtOrEq{"te.end_time": filter.From},
		})
	}
	if !filter.To.IsZero() {
		qb = qb.Where(sq.LtOrEq{"te.start_time": filter.To})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list time entries: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}

	return entries, nil
}

func scanEntry(row pgx.Row) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	err := row.Scan(
		&entry.ID,
		&entry.ActivityID,
		&entry.UserID,
		&entry.Description,
		&entry.Start,
		&entry.End,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// mapError converts pgx/pgconn errors to domain errors.
func mapError(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	ref := "time entry"
	if id != uuid.Nil {
		ref = fmt.Sprintf("time entry %s", id)
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
		case "23P01": // exclusion_violation, second open interval
			return fmt.Errorf("%s: %w", ref, domain.ErrConflict)
		}
	}

	return fmt.Errorf("%s: %w", ref, err)
}
