// Package tracking implements the tracking transition engine: starting and
// stopping intervals, hardware side transitions, and workspace switches.
//
// Every transition runs in one transaction and starts by locking the user
// row, so concurrent transitions for the same user serialize. A transition
// that replaces the open interval opens the new one first and closes the
// old one second; the interval table's deferred constraint tolerates the
// two-open state until commit.
package tracking

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/adapter/postgres/timeentry"
	"github.com/rolltime/backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type intervalStore interface {
	Open(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	Close(ctx context.Context, entryID uuid.UUID, end time.Time) (*domain.TimeEntry, error)
	FindOpen(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error)
	Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.TimeEntry, error)
	Update(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	Delete(ctx context.Context, userID, entryID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, filter timeentry.ListFilter) ([]*domain.TimeEntry, error)
}

type activityRepo interface {
	GetByID(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.Activity, error)
	ResolveSide(ctx context.Context, userID uuid.UUID, side int) (*domain.Activity, error)
	ResolveSideIn(ctx context.Context, workspaceID uuid.UUID, side int) (*domain.Activity, error)
}

type workspaceRepo interface {
	GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error)
}

type userRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	SetActiveWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// notifier is told about completed transitions. Failures are logged, never
// propagated: a transition that committed has happened.
type notifier interface {
	NotifyStarted(ctx context.Context, userID, activityID uuid.UUID, at time.Time) error
	NotifyStopped(ctx context.Context, userID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds the tracking engine tunables.
type Config struct {
	// MinIntervalDuration is the threshold below which a stopped interval
	// is discarded as accidental.
	MinIntervalDuration time.Duration
	// HistoryMaxPageSize caps the history page size.
	HistoryMaxPageSize int
}

// Service implements the tracking business logic.
type Service struct {
	entries    intervalStore
	activities activityRepo
	workspaces workspaceRepo
	users      userRepo
	tx         txManager
	notify     notifier
	device     *DeviceStateStore
	log        *slog.Logger
	cfg        Config

	now func() time.Time
}

// NewService creates a new tracking service.
func NewService(
	log *slog.Logger,
	entries intervalStore,
	activities activityRepo,
	workspaces workspaceRepo,
	users userRepo,
	tx txManager,
	notify notifier,
	cfg Config,
) *Service {
	return &Service{
		entries:    entries,
		activities: activities,
		workspaces: workspaces,
		users:      users,
		tx:         tx,
		notify:     notify,
		device:     NewDeviceStateStore(),
		log:        log.With("service", "tracking"),
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) notifyStarted(ctx context.Context, userID, activityID uuid.UUID, at time.Time) {
	if err := s.notify.NotifyStarted(ctx, userID, activityID, at); err != nil {
		s.log.WarnContext(ctx, "notify started failed", "user_id", userID, "error", err)
	}
}

func (s *Service) notifyStopped(ctx context.Context, userID uuid.UUID) {
	if err := s.notify.NotifyStopped(ctx, userID); err != nil {
		s.log.WarnContext(ctx, "notify stopped failed", "user_id", userID, "error", err)
	}
}
