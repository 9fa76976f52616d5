// Package notifier publishes tracking transition events so other systems
// (companion apps, displays) can follow what a user is tracking.
package notifier

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds carried in TrackingEvent.Kind.
const (
	KindStarted = "tracking.started"
	KindStopped = "tracking.stopped"
)

// TrackingEvent is the JSON payload published per transition.
type TrackingEvent struct {
	Kind       string    `json:"kind"`
	UserID     uuid.UUID `json:"user_id"`
	ActivityID uuid.UUID `json:"activity_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
