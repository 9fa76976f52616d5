package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimeEntry is a tracked time span belonging to one activity. End is nil
// while the entry is open (currently tracking); once set it is never
// cleared again. UserID is denormalized from the owning workspace so that
// the single open entry of a user can be located with one indexed query.
type TimeEntry struct {
	ID          uuid.UUID
	ActivityID  uuid.UUID
	UserID      uuid.UUID
	Description string
	Start       time.Time
	End         *time.Time
	CreatedAt   time.Time
}

// Open reports whether the entry is still being tracked.
func (e *TimeEntry) Open() bool {
	return e.End == nil
}

// Duration returns the tracked span. For an open entry it returns the
// elapsed time up to now.
func (e *TimeEntry) Duration(now time.Time) time.Duration {
	if e.End != nil {
		return e.End.Sub(e.Start)
	}
	return now.Sub(e.Start)
}
