package domain

import (
	"time"

	"github.com/google/uuid"
)

// Side limits. Side 0 is reserved as the "no activity" position reported by
// the hardware selector and never binds to an activity.
const (
	MinSide = 1
	MaxSide = 255
)

// Activity is a trackable unit of work inside a workspace. SideID, when
// set, binds the activity to a position of the physical selector; the
// binding is meaningful only while the owning workspace is the user's
// active workspace.
type Activity struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	Name        string
	Description string
	Color       int
	SideID      *int16
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Assigned reports whether the activity is bound to a selector side.
func (a *Activity) Assigned() bool {
	return a.SideID != nil
}

// ValidSide reports whether side is a bindable selector position.
func ValidSide(side int) bool {
	return side >= MinSide && side <= MaxSide
}
