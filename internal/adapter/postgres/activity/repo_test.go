package activity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rolltime/backend/internal/adapter/postgres/activity"
	"github.com/rolltime/backend/internal/adapter/postgres/testhelper"
	"github.com/rolltime/backend/internal/domain"
)

func newRepo(t *testing.T) (*activity.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return activity.New(pool), pool
}

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	_, workspaceID := testhelper.SeedUser(t, pool)

	side := int16(3)
	a := &domain.Activity{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        "Reading",
		Color:       0xFF8800,
		SideID:      &side,
	}

	got, err := repo.Create(ctx, a)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.Name != a.Name {
		t.Errorf("Name mismatch: got %q, want %q", got.Name, a.Name)
	}
	if got.SideID == nil || *got.SideID != side {
		t.Errorf("SideID mismatch: got %v, want %d", got.SideID, side)
	}
}

func TestRepo_Create_SideOutOfRange(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	_, workspaceID := testhelper.SeedUser(t, pool)

	side := int16(0)
	a := &domain.Activity{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        "Bad Side",
		SideID:      &side,
	}

	_, err := repo.Create(ctx, a)
	assertIsDomainError(t, err, domain.ErrValidation)
}

func TestRepo_Create_DuplicateSideInWorkspace(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	_, workspaceID := testhelper.SeedUser(t, pool)
	testhelper.SeedActivity(t, pool, workspaceID, "First", 5)

	side := int16(5)
	a := &domain.Activity{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        "Second",
		SideID:      &side,
	}

	_, err := repo.Create(ctx, a)
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

func TestRepo_GetByID_OtherUsersActivity(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	_, workspaceID := testhelper.SeedUser(t, pool)
	activityID := testhelper.SeedActivity(t, pool, workspaceID, "Private", 0)
	otherUserID, _ := testhelper.SeedUser(t, pool)

	_, err := repo.GetByID(ctx, otherUserID, activityID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_ResolveSide(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)
	activityID := testhelper.SeedActivity(t, pool, workspaceID, "Coding", 7)

	got, err := repo.ResolveSide(ctx, userID, 7)
	if err != nil {
		t.Fatalf("ResolveSide: unexpected error: %v", err)
	}
	if got.ID != activityID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, activityID)
	}
}

func TestRepo_ResolveSide_Unbound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)
	testhelper.SeedActivity(t, pool, workspaceID, "Coding", 7)

	_, err := repo.ResolveSide(ctx, userID, 8)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_ResolveSide_OnlyActiveWorkspace(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	// Side 7 is bound in a workspace that is NOT the active one.
	userID, _ := testhelper.SeedUser(t, pool)
	otherWS := testhelper.SeedWorkspace(t, pool, userID, "Inactive")
	testhelper.SeedActivity(t, pool, otherWS, "Hidden", 7)

	_, err := repo.ResolveSide(ctx, userID, 7)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_ResolveSideIn(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, _ := testhelper.SeedUser(t, pool)
	otherWS := testhelper.SeedWorkspace(t, pool, userID, "Target")
	activityID := testhelper.SeedActivity(t, pool, otherWS, "Carried", 4)

	got, err := repo.ResolveSideIn(ctx, otherWS, 4)
	if err != nil {
		t.Fatalf("ResolveSideIn: unexpected error: %v", err)
	}
	if got.ID != activityID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, activityID)
	}
}

func TestRepo_AssignSide_StealsFromOtherActivity(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)
	holderID := testhelper.SeedActivity(t, pool, workspaceID, "Holder", 2)
	takerID := testhelper.SeedActivity(t, pool, workspaceID, "Taker", 0)

	got, err := repo.AssignSide(ctx, userID, takerID, 2)
	if err != nil {
		t.Fatalf("AssignSide: unexpected error: %v", err)
	}
	if got.SideID == nil || *got.SideID != 2 {
		t.Fatalf("taker should hold side 2, got %v", got.SideID)
	}

	holder, err := repo.GetByID(ctx, userID, holderID)
	if err != nil {
		t.Fatalf("GetByID holder: %v", err)
	}
	if holder.SideID != nil {
		t.Errorf("holder should have lost side 2, still has %v", *holder.SideID)
	}
}

func TestRepo_UnassignSide(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)
	activityID := testhelper.SeedActivity(t, pool, workspaceID, "Bound", 9)

	got, err := repo.UnassignSide(ctx, userID, activityID)
	if err != nil {
		t.Fatalf("UnassignSide: unexpected error: %v", err)
	}
	if got.SideID != nil {
		t.Errorf("SideID should be nil, got %v", *got.SideID)
	}
}

func TestRepo_GetActive(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)
	activityID := testhelper.SeedActivity(t, pool, workspaceID, "Tracked", 0)
	testhelper.SeedEntry(t, pool, userID, activityID, time.Now().UTC(), time.Time{})

	got, err := repo.GetActive(ctx, userID)
	if err != nil {
		t.Fatalf("GetActive: unexpected error: %v", err)
	}
	if got.ID != activityID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, activityID)
	}
}

func TestRepo_GetActive_NothingTracked(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, _ := testhelper.SeedUser(t, pool)

	_, err := repo.GetActive(ctx, userID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_Delete_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)
	activityID := testhelper.SeedActivity(t, pool, workspaceID, "Gone", 0)

	if err := repo.Delete(ctx, userID, activityID); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}

	_, err := repo.GetByID(ctx, userID, activityID)
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
