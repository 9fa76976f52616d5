package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated application user. ActiveWorkspaceID is
// the single workspace the user is currently operating in; it is nil only
// before the user's first workspace exists.
type User struct {
	ID                uuid.UUID
	Username          string
	Email             string
	PasswordHash      string
	ActiveWorkspaceID *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RefreshToken represents a hashed refresh token stored in the database.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsRevoked returns true if the token has been revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has expired relative to now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
