package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rolltime/backend/internal/domain"
)

// defaultWorkspaceName is the name of the workspace every new user gets.
const defaultWorkspaceName = "Default"

// Register creates a new user with username + password authentication,
// along with a default workspace which is immediately made active.
// Returns ErrAlreadyExists if the username or email is already taken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	// Normalize input before validation.
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	// Create user + default workspace in a transaction. Username and email
	// uniqueness are enforced by DB constraints.
	var createdUser *domain.User

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.users.Create(txCtx, &domain.User{
			ID:           uuid.New(),
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: string(hash),
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		ws, err := s.workspaces.Create(txCtx, &domain.Workspace{
			ID:        uuid.New(),
			UserID:    user.ID,
			Name:      defaultWorkspaceName,
			IsDefault: true,
		})
		if err != nil {
			return fmt.Errorf("create default workspace: %w", err)
		}

		if err := s.users.SetActiveWorkspace(txCtx, user.ID, ws.ID); err != nil {
			return fmt.Errorf("set active workspace: %w", err)
		}
		user.ActiveWorkspaceID = &ws.ID

		createdUser = user
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("auth.Register: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	result, err := s.issueTokens(ctx, createdUser)
	if err != nil {
		return nil, fmt.Errorf("auth.Register issue tokens: %w", err)
	}

	s.log.InfoContext(ctx, "user registered",
		slog.String("user_id", createdUser.ID.String()))

	return result, nil
}
