package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
)

var (
	_ userRepo      = &userRepoMock{}
	_ workspaceRepo = &workspaceRepoMock{}
	_ tokenRepo     = &tokenRepoMock{}
	_ txManager     = &txManagerMock{}
)

type userRepoMock struct {
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameFunc      func(ctx context.Context, username string) (*domain.User, error)
	CreateFunc             func(ctx context.Context, user *domain.User) (*domain.User, error)
	SetActiveWorkspaceFunc func(ctx context.Context, userID, workspaceID uuid.UUID) error
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return m.CreateFunc(ctx, user)
}

func (m *userRepoMock) SetActiveWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) error {
	return m.SetActiveWorkspaceFunc(ctx, userID, workspaceID)
}

type workspaceRepoMock struct {
	CreateFunc func(ctx context.Context, ws *domain.Workspace) (*domain.Workspace, error)
}

func (m *workspaceRepoMock) Create(ctx context.Context, ws *domain.Workspace) (*domain.Workspace, error) {
	return m.CreateFunc(ctx, ws)
}

type tokenRepoMock struct {
	CreateFunc          func(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error)
	GetByHashFunc       func(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByIDFunc      func(ctx context.Context, id uuid.UUID) error
	RevokeAllByUserFunc func(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredFunc   func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *tokenRepoMock) Create(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	return m.CreateFunc(ctx, token)
}

func (m *tokenRepoMock) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	return m.GetByHashFunc(ctx, tokenHash)
}

func (m *tokenRepoMock) RevokeByID(ctx context.Context, id uuid.UUID) error {
	return m.RevokeByIDFunc(ctx, id)
}

func (m *tokenRepoMock) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return m.RevokeAllByUserFunc(ctx, userID)
}

func (m *tokenRepoMock) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.DeleteExpiredFunc(ctx, cutoff)
}

type txManagerMock struct{}

func (*txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
