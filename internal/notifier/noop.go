package notifier

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Noop discards all events. Used when no brokers are configured.
type Noop struct{}

// NewNoop creates a Noop notifier.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) NotifyStarted(context.Context, uuid.UUID, uuid.UUID, time.Time) error { return nil }

func (*Noop) NotifyStopped(context.Context, uuid.UUID) error { return nil }
