package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rolltime/backend/internal/auth"
	"github.com/rolltime/backend/internal/domain"
)

// Refresh performs token rotation and returns new access/refresh tokens.
// If the refresh token is not found (revoked or reused), logs a warning and
// returns ErrUnauthorized. If the token is expired or the user is deleted,
// returns ErrUnauthorized.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash := auth.HashToken(input.RefreshToken)

	token, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Token not found (reuse detection)
			s.log.WarnContext(ctx, "refresh token reuse attempted")
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Refresh get token: %w", err)
	}

	if token.IsRevoked() || token.IsExpired(time.Now()) {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "refresh for deleted user",
				slog.String("user_id", token.UserID.String()))
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Refresh get user: %w", err)
	}

	if err := s.tokens.RevokeByID(ctx, token.ID); err != nil {
		return nil, fmt.Errorf("auth.Refresh revoke token: %w", err)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh issue tokens: %w", err)
	}
	return result, nil
}
