package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrackingResult is the outcome of a tracking transition. ActivityID is
// the activity the transition reports to the caller: for a start it is
// the activity that began tracking, for a hardware side update it is the
// activity that WAS tracking before the update (uuid.Nil when none), and
// for a workspace switch it is the activity carried into the new
// workspace (uuid.Nil when nothing carried over). Timestamp is the single
// instant used for every close and open inside the transition.
type TrackingResult struct {
	ActivityID uuid.UUID
	Timestamp  time.Time
}

// Started reports whether the result references a concrete activity.
func (r *TrackingResult) Started() bool {
	return r.ActivityID != uuid.Nil
}
