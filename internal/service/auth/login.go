package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rolltime/backend/internal/domain"
)

// Login authenticates a user with username + password.
// Returns ErrUnauthorized if the username is not found or the password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	// Normalize input before validation.
	input.Username = strings.TrimSpace(input.Username)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Login get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth.Login issue tokens: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.String()))

	return result, nil
}
