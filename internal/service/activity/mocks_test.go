package activity

import (
	"context"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
)

var (
	_ activityRepo  = &activityRepoMock{}
	_ workspaceRepo = &workspaceRepoMock{}
	_ intervalStore = &intervalStoreMock{}
	_ txManager     = &txManagerMock{}
)

type activityRepoMock struct {
	CreateFunc          func(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	GetByIDFunc         func(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error)
	ListByWorkspaceFunc func(ctx context.Context, userID, workspaceID uuid.UUID) ([]*domain.Activity, error)
	UpdateFunc          func(ctx context.Context, userID, activityID uuid.UUID, name, description string, color int) (*domain.Activity, error)
	DeleteFunc          func(ctx context.Context, userID, activityID uuid.UUID) error
	AssignSideFunc      func(ctx context.Context, userID, activityID uuid.UUID, side int) (*domain.Activity, error)
	UnassignSideFunc    func(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error)
	GetActiveFunc       func(ctx context.Context, userID uuid.UUID) (*domain.Activity, error)
}

func (m *activityRepoMock) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	return m.CreateFunc(ctx, a)
}

func (m *activityRepoMock) GetByID(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error) {
	return m.GetByIDFunc(ctx, userID, activityID)
}

func (m *activityRepoMock) ListByWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) ([]*domain.Activity, error) {
	return m.ListByWorkspaceFunc(ctx, userID, workspaceID)
}

func (m *activityRepoMock) Update(ctx context.Context, userID, activityID uuid.UUID, name, description string, color int) (*domain.Activity, error) {
	return m.UpdateFunc(ctx, userID, activityID, name, description, color)
}

func (m *activityRepoMock) Delete(ctx context.Context, userID, activityID uuid.UUID) error {
	return m.DeleteFunc(ctx, userID, activityID)
}

func (m *activityRepoMock) AssignSide(ctx context.Context, userID, activityID uuid.UUID, side int) (*domain.Activity, error) {
	return m.AssignSideFunc(ctx, userID, activityID, side)
}

func (m *activityRepoMock) UnassignSide(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error) {
	return m.UnassignSideFunc(ctx, userID, activityID)
}

func (m *activityRepoMock) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Activity, error) {
	return m.GetActiveFunc(ctx, userID)
}

type workspaceRepoMock struct {
	GetByIDFunc func(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error)
}

func (m *workspaceRepoMock) GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	return m.GetByIDFunc(ctx, userID, workspaceID)
}

type intervalStoreMock struct {
	FindOpenFunc func(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error)
}

func (m *intervalStoreMock) FindOpen(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error) {
	return m.FindOpenFunc(ctx, userID)
}

type txManagerMock struct{}

func (*txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
