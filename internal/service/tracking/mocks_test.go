package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/adapter/postgres/timeentry"
	"github.com/rolltime/backend/internal/domain"
)

var (
	_ intervalStore = &intervalStoreMock{}
	_ activityRepo  = &activityRepoMock{}
	_ workspaceRepo = &workspaceRepoMock{}
	_ userRepo      = &userRepoMock{}
	_ txManager     = &txManagerMock{}
	_ notifier      = &notifierMock{}
)

type intervalStoreMock struct {
	OpenFunc              func(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	CloseFunc             func(ctx context.Context, entryID uuid.UUID, end time.Time) (*domain.TimeEntry, error)
	FindOpenFunc          func(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error)
	CreateFunc            func(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	GetByIDFunc           func(ctx context.Context, userID, entryID uuid.UUID) (*domain.TimeEntry, error)
	UpdateFunc            func(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error)
	DeleteFunc            func(ctx context.Context, userID, entryID uuid.UUID) error
	ListFunc              func(ctx context.Context, userID uuid.UUID, filter timeentry.ListFilter) ([]*domain.TimeEntry, error)
}

func (m *intervalStoreMock) Open(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	return m.OpenFunc(ctx, entry)
}

func (m *intervalStoreMock) Close(ctx context.Context, entryID uuid.UUID, end time.Time) (*domain.TimeEntry, error) {
	return m.CloseFunc(ctx, entryID, end)
}

func (m *intervalStoreMock) FindOpen(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error) {
	return m.FindOpenFunc(ctx, userID)
}

func (m *intervalStoreMock) Create(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	return m.CreateFunc(ctx, entry)
}

func (m *intervalStoreMock) GetByID(ctx context.Context, userID, entryID uuid.UUID) (*domain.TimeEntry, error) {
	return m.GetByIDFunc(ctx, userID, entryID)
}

func (m *intervalStoreMock) Update(ctx context.Context, entry *domain.TimeEntry) (*domain.TimeEntry, error) {
	return m.UpdateFunc(ctx, entry)
}

func (m *intervalStoreMock) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	return m.DeleteFunc(ctx, userID, entryID)
}

func (m *intervalStoreMock) List(ctx context.Context, userID uuid.UUID, filter timeentry.ListFilter) ([]*domain.TimeEntry, error) {
	return m.ListFunc(ctx, userID, filter)
}

type activityRepoMock struct {
	GetByIDFunc       func(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error)
	GetActiveFunc     func(ctx context.Context, userID uuid.UUID) (*domain.Activity, error)
	ResolveSideFunc   func(ctx context.Context, userID uuid.UUID, side int) (*domain.Activity, error)
	ResolveSideInFunc func(ctx context.Context, workspaceID uuid.UUID, side int) (*domain.Activity, error)
}

func (m *activityRepoMock) GetByID(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error) {
	return m.GetByIDFunc(ctx, userID, activityID)
}

func (m *activityRepoMock) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Activity, error) {
	return m.GetActiveFunc(ctx, userID)
}

func (m *activityRepoMock) ResolveSide(ctx context.Context, userID uuid.UUID, side int) (*domain.Activity, error) {
	return m.ResolveSideFunc(ctx, userID, side)
}

func (m *activityRepoMock) ResolveSideIn(ctx context.Context, workspaceID uuid.UUID, side int) (*domain.Activity, error) {
	return m.ResolveSideInFunc(ctx, workspaceID, side)
}

type workspaceRepoMock struct {
	GetByIDFunc func(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error)
}

func (m *workspaceRepoMock) GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	return m.GetByIDFunc(ctx, userID, workspaceID)
}

type userRepoMock struct {
	GetByIDFunc            func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetForUpdateFunc       func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	SetActiveWorkspaceFunc func(ctx context.Context, userID, workspaceID uuid.UUID) error
}

func (m *userRepoMock) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, userID)
}

func (m *userRepoMock) GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.GetForUpdateFunc(ctx, userID)
}

func (m *userRepoMock) SetActiveWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) error {
	return m.SetActiveWorkspaceFunc(ctx, userID, workspaceID)
}

// txManagerMock runs the callback directly; tests observe rollback by the
// returned error.
type txManagerMock struct{}

func (*txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type notifierMock struct {
	started []uuid.UUID
	stopped int
}

func (m *notifierMock) NotifyStarted(_ context.Context, _ uuid.UUID, activityID uuid.UUID, _ time.Time) error {
	m.started = append(m.started, activityID)
	return nil
}

func (m *notifierMock) NotifyStopped(context.Context, uuid.UUID) error {
	m.stopped++
	return nil
}
