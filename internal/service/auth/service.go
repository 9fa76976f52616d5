// Package auth implements registration, login and token lifecycle.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/config"
	"github.com/rolltime/backend/internal/domain"
)

// userRepo defines the user repository interface needed by the auth service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	SetActiveWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) error
}

// workspaceRepo defines the workspace repository interface needed by the auth service.
type workspaceRepo interface {
	Create(ctx context.Context, ws *domain.Workspace) (*domain.Workspace, error)
}

// tokenRepo defines the refresh token repository interface needed by the auth service.
type tokenRepo interface {
	Create(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error)
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByID(ctx context.Context, id uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// txManager defines the transaction manager interface needed by the auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// jwtManager defines the JWT token management interface needed by the auth service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, error)
	GenerateRefreshToken() (raw string, hash string, err error)
}

// Service implements auth operations.
type Service struct {
	log        *slog.Logger
	users      userRepo
	workspaces workspaceRepo
	tokens     tokenRepo
	tx         txManager
	jwt        jwtManager
	cfg        config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	workspaces workspaceRepo,
	tokens tokenRepo,
	tx txManager,
	jwt jwtManager,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "auth"),
		users:      users,
		workspaces: workspaces,
		tokens:     tokens,
		tx:         tx,
		jwt:        jwt,
		cfg:        cfg,
	}
}

// issueTokens generates access and refresh tokens for the given user, stores
// the refresh token hash in DB, and returns an AuthResult.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefresh, hashRefresh, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashRefresh,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
	}
	if _, err := s.tokens.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		User:         user,
	}, nil
}
