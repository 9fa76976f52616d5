package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace groups a set of activities for one user. Exactly one workspace
// per user is the default; the default workspace can never be deleted.
type Workspace struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
