package timeentry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/rolltime/backend/internal/adapter/postgres"
	"github.com/rolltime/backend/internal/adapter/postgres/testhelper"
	"github.com/rolltime/backend/internal/adapter/postgres/timeentry"
	"github.com/rolltime/backend/internal/domain"
)

func newRepo(t *testing.T) (*timeentry.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return timeentry.New(pool), pool
}

func seedTracked(t *testing.T, pool *pgxpool.Pool) (userID, activityID uuid.UUID) {
	t.Helper()
	userID, workspaceID := testhelper.SeedUser(t, pool)
	activityID = testhelper.SeedActivity(t, pool, workspaceID, "Tracked", 0)
	return userID, activityID
}

func TestRepo_Open_FindOpen(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, activityID := seedTracked(t, pool)
	start := time.Now().UTC().Truncate(time.Microsecond)

	opened, err := repo.Open(ctx, &domain.TimeEntry{
		ID:         uuid.New(),
		ActivityID: activityID,
		UserID:     userID,
		Start:      start,
	})
	if err != nil {
		t.Fatalf("Open: unexpected error: %v", err)
	}
	if opened.End != nil {
		t.Fatalf("opened entry should have nil End, got %v", opened.End)
	}

	found, err := repo.FindOpen(ctx, userID)
	if err != nil {
		t.Fatalf("FindOpen: unexpected error: %v", err)
	}
	if found.ID != opened.ID {
		t.Errorf("ID mismatch: got %s, want %s", found.ID, opened.ID)
	}
	if !found.Start.Equal(start) {
		t.Errorf("Start mismatch: got %v, want %v", found.Start, start)
	}
}

func TestRepo_FindOpen_NothingOpen(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, _ := seedTracked(t, pool)

	_, err := repo.FindOpen(ctx, userID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_Open_SecondOpenConflicts(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, activityID := seedTracked(t, pool)
	now := time.Now().UTC()

	if _, err := repo.Open(ctx, &domain.TimeEntry{
		ID: uuid.New(), ActivityID: activityID, UserID: userID, Start: now,
	}); err != nil {
		t.Fatalf("first Open: %v", err)
	}

	// The exclusion constraint is deferred, so outside a transaction it
	// fires when the implicit transaction commits.
	_, err := repo.Open(ctx, &domain.TimeEntry{
		ID: uuid.New(), ActivityID: activityID, UserID: userID, Start: now,
	})
	assertIsDomainError(t, err, domain.ErrConflict)
}

func TestRepo_Open_TwoOpenWithinTx(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, activityID := seedTracked(t, pool)
	now := time.Now().UTC()

	first, err := repo.Open(ctx, &domain.TimeEntry{
		ID: uuid.New(), ActivityID: activityID, UserID: userID, Start: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}

	// Open the replacement before closing the old entry. Both are open
	// mid-transaction; the constraint only checks at commit.
	txm := postgres.NewTxManager(pool)
	err = txm.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Open(ctx, &domain.TimeEntry{
			ID: uuid.New(), ActivityID: activityID, UserID: userID, Start: now,
		}); err != nil {
			return err
		}
		_, err := repo.Close(ctx, first.ID, now)
		return err
	})
	if err != nil {
		t.Fatalf("open-then-close transaction: %v", err)
	}

	open, err := repo.FindOpen(ctx, userID)
	if err != nil {
		t.Fatalf("FindOpen after transition: %v", err)
	}
	if open.ID == first.ID {
		t.Error("old entry should be closed, new one open")
	}
}

func TestRepo_Close_Idempotent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, activityID := seedTracked(t, pool)
	now := time.Now().UTC().Truncate(time.Microsecond)

	opened, err := repo.Open(ctx, &domain.TimeEntry{
		ID: uuid.New(), ActivityID: activityID, UserID: userID, Start: now.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	closed, err := repo.Close(ctx, opened.ID, now)
	if err != nil {
		t.Fatalf("Close: unexpected error: %v", err)
	}
	if closed.End == nil || !closed.End.Equal(now) {
		t.Fatalf("End mismatch: got %v, want %v", closed.End, now)
	}

	// Closing again finds no open row.
	_, err = repo.Close(ctx, opened.ID, now.Add(time.Minute))
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_Delete_OnlyTargetEntry(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, activityID := seedTracked(t, pool)
	now := time.Now().UTC()

	target := testhelper.SeedEntry(t, pool, userID, activityID, now.Add(-30*time.Second), now)
	other := testhelper.SeedEntry(t, pool, userID, activityID, now.Add(-10*time.Minute), now.Add(-5*time.Minute))
	open := testhelper.SeedEntry(t, pool, userID, activityID, now.Add(-10*time.Second), time.Time{})

	if err := repo.Delete(ctx, userID, target); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}

	_, err := repo.GetByID(ctx, userID, target)
	assertIsDomainError(t, err, domain.ErrNotFound)

	if _, err := repo.GetByID(ctx, userID, other); err != nil {
		t.Errorf("other entry should survive: %v", err)
	}
	if _, err := repo.GetByID(ctx, userID, open); err != nil {
		t.Errorf("open entry should survive: %v", err)
	}
}

func TestRepo_List_Filters(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)
	coding := testhelper.SeedActivity(t, pool, workspaceID, "Coding", 0)
	reading := testhelper.SeedActivity(t, pool, workspaceID, "Reading", 0)

	otherWS := testhelper.SeedWorkspace(t, pool, userID, "Other")
	chores := testhelper.SeedActivity(t, pool, otherWS, "Chores", 0)

	now := time.Now().UTC().Truncate(time.Microsecond)
	testhelper.SeedEntry(t, pool, userID, coding, now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	testhelper.SeedEntry(t, pool, userID, reading, now.Add(-2*time.Hour), now.Add(-time.Hour))
	testhelper.SeedEntry(t, pool, userID, chores, now.Add(-time.Hour), now)

	t.Run("all", func(t *testing.T) {
		entries, err := repo.List(ctx, userID, timeentry.ListFilter{Limit: 50})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}
		// Newest first.
		if entries[0].ActivityID != chores {
			t.Errorf("expected newest entry first, got activity %s", entries[0].ActivityID)
		}
	})

	t.Run("by workspace", func(t *testing.T) {
		entries, err := repo.List(ctx, userID, timeentry.ListFilter{WorkspaceID: workspaceID, Limit: 50})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
	})

	t.Run("by activity", func(t *testing.T) {
		entries, err := repo.List(ctx, userID, timeentry.ListFilter{ActivityIDs: []uuid.UUID{coding}, Limit: 50})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(entries) != 1 || entries[0].ActivityID != coding {
			t.Fatalf("expected only the coding entry, got %d", len(entries))
		}
	})

	t.Run("date range overlap", func(t *testing.T) {
		// Range covers only the middle entry's interval fully, but the
		// chores entry overlaps its start.
		entries, err := repo.List(ctx, userID, timeentry.ListFilter{
			From:  now.Add(-90 * time.Minute),
			To:    now.Add(-30 * time.Minute),
			Limit: 50,
		})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 overlapping entries, got %d", len(entries))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		entries, err := repo.List(ctx, userID, timeentry.ListFilter{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		if entries[0].ActivityID != reading {
			t.Errorf("expected the middle entry, got activity %s", entries[0].ActivityID)
		}
	})
}

func TestRepo_List_OpenEntryInRange(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, activityID := seedTracked(t, pool)
	now := time.Now().UTC()

	// Started before the range, still running: must show up.
	testhelper.SeedEntry(t, pool, userID, activityID, now.Add(-2*time.Hour), time.Time{})

	entries, err := repo.List(ctx, userID, timeentry.ListFilter{
		From:  now.Add(-time.Hour),
		To:    now,
		Limit: 50,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the open entry in range, got %d entries", len(entries))
	}
}

func TestRepo_Update_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, activityID := seedTracked(t, pool)
	now := time.Now().UTC().Truncate(time.Microsecond)
	entryID := testhelper.SeedEntry(t, pool, userID, activityID, now.Add(-time.Hour), now)

	newEnd := now.Add(-time.Minute)
	got, err := repo.Update(ctx, &domain.TimeEntry{
		ID:          entryID,
		ActivityID:  activityID,
		UserID:      userID,
		Description: "corrected",
		Start:       now.Add(-2 * time.Hour),
		End:         &newEnd,
	})
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if got.Description != "corrected" {
		t.Errorf("Description mismatch: got %q", got.Description)
	}
	if got.End == nil || !got.End.Equal(newEnd) {
		t.Errorf("End mismatch: got %v, want %v", got.End, newEnd)
	}
}

func TestRepo_Delete_NotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, _ := seedTracked(t, pool)

	err := repo.Delete(ctx, userID, uuid.New())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func assertIsDomainError(t *testing.T, err error, target error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error wrapping %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Fatalf("expected error wrapping %v, got: %v", target, err)
	}
}
