// Package workspace implements workspace management on top of the
// workspace repository. The default workspace created at registration
// cannot be deleted; switching the active workspace is handled by the
// tracking service because it interacts with the open interval.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
)

const maxNameLength = 128

// workspaceRepo defines the workspace repository interface needed by the service.
type workspaceRepo interface {
	Create(ctx context.Context, ws *domain.Workspace) (*domain.Workspace, error)
	GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error)
	ListByUser(ctx context.Context, userID uuid.UUID, query string, limit, offset int) ([]*domain.Workspace, error)
	Update(ctx context.Context, userID, workspaceID uuid.UUID, name, description string) (*domain.Workspace, error)
	Delete(ctx context.Context, userID, workspaceID uuid.UUID) error
}

// Service implements workspace operations.
type Service struct {
	log        *slog.Logger
	workspaces workspaceRepo
}

// NewService creates a new workspace service instance.
func NewService(logger *slog.Logger, workspaces workspaceRepo) *Service {
	return &Service{
		log:        logger.With(slog.String("service", "workspace")),
		workspaces: workspaces,
	}
}

// CreateInput holds the fields for creating or updating a workspace.
type CreateInput struct {
	Name        string
	Description string
}

func (in *CreateInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.NewValidationError("name", "required")
	}
	if len(name) > maxNameLength {
		return domain.NewValidationError("name", "too long")
	}
	return nil
}

// ListInput holds filtering and pagination for workspace listing.
type ListInput struct {
	Query  string
	Limit  int
	Offset int
}

// Create creates a new non-default workspace for the user.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*domain.Workspace, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.Create(ctx, &domain.Workspace{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("workspace.Create: %w", err)
	}

	s.log.InfoContext(ctx, "workspace created",
		slog.String("workspace_id", ws.ID.String()),
		slog.String("user_id", userID.String()))
	return ws, nil
}

// Get returns a single workspace owned by the user.
func (s *Service) Get(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error) {
	ws, err := s.workspaces.GetByID(ctx, userID, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("workspace.Get: %w", err)
	}
	return ws, nil
}

// List returns the user's workspaces, optionally filtered by a name substring.
func (s *Service) List(ctx context.Context, userID uuid.UUID, input ListInput) ([]*domain.Workspace, error) {
	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	list, err := s.workspaces.ListByUser(ctx, userID, input.Query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("workspace.List: %w", err)
	}
	return list, nil
}

// Update renames a workspace or changes its description.
func (s *Service) Update(ctx context.Context, userID, workspaceID uuid.UUID, input CreateInput) (*domain.Workspace, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	ws, err := s.workspaces.Update(ctx, userID, workspaceID, strings.TrimSpace(input.Name), input.Description)
	if err != nil {
		return nil, fmt.Errorf("workspace.Update: %w", err)
	}
	return ws, nil
}

// Delete removes a workspace together with its activities and intervals.
// The default workspace is protected and cannot be deleted.
func (s *Service) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	ws, err := s.workspaces.GetByID(ctx, userID, workspaceID)
	if err != nil {
		return fmt.Errorf("workspace.Delete: %w", err)
	}
	if ws.IsDefault {
		return domain.ErrForbidden
	}

	if err := s.workspaces.Delete(ctx, userID, workspaceID); err != nil {
		return fmt.Errorf("workspace.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "workspace deleted",
		slog.String("workspace_id", workspaceID.String()),
		slog.String("user_id", userID.String()))
	return nil
}
