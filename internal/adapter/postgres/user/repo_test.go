package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rolltime/backend/internal/adapter/postgres/testhelper"
	"github.com/rolltime/backend/internal/adapter/postgres/user"
	"github.com/rolltime/backend/internal/domain"
)

// newRepo is a test helper that sets up the DB and returns a ready Repo.
func newRepo(t *testing.T) (*user.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool), pool
}

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	u := &domain.User{
		ID:           uuid.New(),
		Username:     "create-happy-" + uuid.New().String()[:8],
		Email:        "create-happy-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: "$2a$10$hash",
	}

	got, err := repo.Create(ctx, u)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if got.ID != u.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, u.ID)
	}
	if got.Username != u.Username {
		t.Errorf("Username mismatch: got %s, want %s", got.Username, u.Username)
	}
	if got.ActiveWorkspaceID != nil {
		t.Errorf("ActiveWorkspaceID should be nil for a new user, got %v", got.ActiveWorkspaceID)
	}
}

func TestRepo_Create_DuplicateUsername(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	username := "dup-name-" + uuid.New().String()[:8]

	u1 := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        "dup-name-1-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: "x",
	}
	if _, err := repo.Create(ctx, u1); err != nil {
		t.Fatalf("Create first user: %v", err)
	}

	u2 := &domain.User{
		ID:           uuid.New(),
		Username:     username, // same username
		Email:        "dup-name-2-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: "x",
	}
	_, err := repo.Create(ctx, u2)
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

func TestRepo_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	email := "dup-email-" + uuid.New().String()[:8] + "@example.com"

	u1 := &domain.User{
		ID:           uuid.New(),
		Username:     "dup-email-1-" + uuid.New().String()[:8],
		Email:        email,
		PasswordHash: "x",
	}
	if _, err := repo.Create(ctx, u1); err != nil {
		t.Fatalf("Create first user: %v", err)
	}

	u2 := &domain.User{
		ID:           uuid.New(),
		Username:     "dup-email-2-" + uuid.New().String()[:8],
		Email:        email, // same email
		PasswordHash: "x",
	}
	_, err := repo.Create(ctx, u2)
	assertIsDomainError(t, err, domain.ErrAlreadyExists)
}

func TestRepo_GetByID_HappyPath(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)

	got, err := repo.GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}

	if got.ID != userID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, userID)
	}
	if got.ActiveWorkspaceID == nil || *got.ActiveWorkspaceID != workspaceID {
		t.Errorf("ActiveWorkspaceID mismatch: got %v, want %s", got.ActiveWorkspaceID, workspaceID)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_GetByUsername_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	u := &domain.User{
		ID:           uuid.New(),
		Username:     "byname-" + uuid.New().String()[:8],
		Email:        "byname-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: "x",
	}
	if _, err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByUsername(ctx, u.Username)
	if err != nil {
		t.Fatalf("GetByUsername: unexpected error: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, u.ID)
	}
}

func TestRepo_GetByUsername_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "nonexistent-"+uuid.New().String()[:8])
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_SetActiveWorkspace(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, _ := testhelper.SeedUser(t, pool)
	otherWS := testhelper.SeedWorkspace(t, pool, userID, "Second")

	if err := repo.SetActiveWorkspace(ctx, userID, otherWS); err != nil {
		t.Fatalf("SetActiveWorkspace: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ActiveWorkspaceID == nil || *got.ActiveWorkspaceID != otherWS {
		t.Errorf("ActiveWorkspaceID mismatch: got %v, want %s", got.ActiveWorkspaceID, otherWS)
	}
}

func TestRepo_SetActiveWorkspace_UserNotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, workspaceID := testhelper.SeedUser(t, pool)
	_ = userID

	err := repo.SetActiveWorkspace(ctx, uuid.New(), workspaceID)
	assertIsDomainError(t, err, domain.ErrNotFound)
}

func TestRepo_GetForUpdate(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	userID, _ := testhelper.SeedUser(t, pool)

	got, err := repo.GetForUpdate(ctx, userID)
	if err != nil {
		t.Fatalf("GetForUpdate: unexpected error: %v", err)
	}
	if got.ID != userID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, userID)
	}
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
