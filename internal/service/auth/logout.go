package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
	"github.com/rolltime/backend/pkg/ctxutil"
)

// Logout revokes all refresh tokens for the authenticated user.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) Logout(ctx context.Context) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.tokens.RevokeAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	s.log.InfoContext(ctx, "user logged out", slog.String("user_id", userID.String()))
	return nil
}

// ValidateToken validates an access token and returns the user ID.
// Returns ErrUnauthorized if the token is invalid or expired.
func (s *Service) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

// CleanupExpiredTokens removes all expired refresh tokens from the database.
// Returns the number of tokens deleted. This is a maintenance operation.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.tokens.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.log.ErrorContext(ctx, "token cleanup failed", slog.String("error", err.Error()))
		return 0, fmt.Errorf("auth.CleanupExpiredTokens: %w", err)
	}

	if count > 0 {
		s.log.InfoContext(ctx, "cleaned up expired tokens", slog.Int64("count", count))
	}

	return count, nil
}
