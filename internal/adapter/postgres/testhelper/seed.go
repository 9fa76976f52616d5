package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedUser inserts a user with a fresh workspace marked default and the
// active workspace pointer set to it. Returns the user and workspace IDs.
func SeedUser(t *testing.T, pool *pgxpool.Pool) (uuid.UUID, uuid.UUID) {
	t.Helper()

	ctx := context.Background()
	userID := uuid.New()
	workspaceID := uuid.New()

	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, 'x')`,
		userID, "user-"+userID.String()[:8], userID.String()[:8]+"@example.com")
	if err != nil {
		t.Fatalf("testhelper: seed user: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO workspaces (id, user_id, name, is_default)
		VALUES ($1, $2, 'Default', true)`,
		workspaceID, userID)
	if err != nil {
		t.Fatalf("testhelper: seed workspace: %v", err)
	}

	_, err = pool.Exec(ctx, `UPDATE users SET active_workspace_id = $2 WHERE id = $1`, userID, workspaceID)
	if err != nil {
		t.Fatalf("testhelper: set active workspace: %v", err)
	}

	return userID, workspaceID
}

// SeedWorkspace inserts an extra non-default workspace for the user.
func SeedWorkspace(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	workspaceID := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO workspaces (id, user_id, name)
		VALUES ($1, $2, $3)`,
		workspaceID, userID, name)
	if err != nil {
		t.Fatalf("testhelper: seed workspace: %v", err)
	}

	return workspaceID
}

// SeedActivity inserts an activity, optionally bound to a side (0 means unbound).
func SeedActivity(t *testing.T, pool *pgxpool.Pool, workspaceID uuid.UUID, name string, side int) uuid.UUID {
	t.Helper()

	activityID := uuid.New()

	var sideID *int16
	if side != 0 {
		s := int16(side)
		sideID = &s
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO activities (id, workspace_id, name, side_id)
		VALUES ($1, $2, $3, $4)`,
		activityID, workspaceID, name, sideID)
	if err != nil {
		t.Fatalf("testhelper: seed activity: %v", err)
	}

	return activityID
}

// SeedEntry inserts a time entry; a zero end means the entry stays open.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, userID, activityID uuid.UUID, start, end time.Time) uuid.UUID {
	t.Helper()

	entryID := uuid.New()

	var endTime *time.Time
	if !end.IsZero() {
		endTime = &end
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO time_entries (id, activity_id, user_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`,
		entryID, activityID, userID, start, endTime)
	if err != nil {
		t.Fatalf("testhelper: seed entry: %v", err)
	}

	return entryID
}
