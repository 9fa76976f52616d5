// Package activity implements activity management: CRUD inside a
// workspace plus binding activities to hardware selector sides. A side is
// unique within its workspace; binding an occupied side moves it to the
// new activity.
package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
)

const maxNameLength = 128

// activityRepo defines the activity repository interface needed by the service.
type activityRepo interface {
	Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	GetByID(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error)
	ListByWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) ([]*domain.Activity, error)
	Update(ctx context.Context, userID, activityID uuid.UUID, name, description string, color int) (*domain.Activity, error)
	Delete(ctx context.Context, userID, activityID uuid.UUID) error
	AssignSide(ctx context.Context, userID, activityID uuid.UUID, side int) (*domain.Activity, error)
	UnassignSide(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.Activity, error)
}

// workspaceRepo defines the workspace repository interface needed by the service.
type workspaceRepo interface {
	GetByID(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error)
}

// intervalStore defines the time entry lookup needed by the service.
type intervalStore interface {
	FindOpen(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error)
}

// txManager defines the transaction manager interface needed by the service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements activity operations.
type Service struct {
	log        *slog.Logger
	activities activityRepo
	workspaces workspaceRepo
	entries    intervalStore
	tx         txManager
}

// NewService creates a new activity service instance.
func NewService(
	logger *slog.Logger,
	activities activityRepo,
	workspaces workspaceRepo,
	entries intervalStore,
	tx txManager,
) *Service {
	return &Service{
		log:        logger.With(slog.String("service", "activity")),
		activities: activities,
		workspaces: workspaces,
		entries:    entries,
		tx:         tx,
	}
}

// CreateInput holds the fields for creating a new activity. Side is
// optional; zero means the activity starts unbound.
type CreateInput struct {
	WorkspaceID uuid.UUID
	Name        string
	Description string
	Color       int
	Side        int
}

func (in *CreateInput) validate() error {
	var errs []domain.FieldError
	if in.WorkspaceID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "workspace_id", Message: "required"})
	}
	if name := strings.TrimSpace(in.Name); name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(name) > maxNameLength {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	if in.Side != 0 && !domain.ValidSide(in.Side) {
		errs = append(errs, domain.FieldError{Field: "side", Message: "out of range"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds the mutable fields of an activity.
type UpdateInput struct {
	Name        string
	Description string
	Color       int
}

// ActiveActivity pairs the currently tracked activity with the moment
// tracking started.
type ActiveActivity struct {
	Activity *domain.Activity
	Since    time.Time
}

// Create creates a new activity. When a side is given the binding happens
// in the same transaction, vacating the side if another activity holds it.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*domain.Activity, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.workspaces.GetByID(ctx, userID, input.WorkspaceID); err != nil {
		return nil, fmt.Errorf("activity.Create workspace: %w", err)
	}

	var created *domain.Activity
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		a, err := s.activities.Create(ctx, &domain.Activity{
			ID:          uuid.New(),
			WorkspaceID: input.WorkspaceID,
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Color:       input.Color,
		})
		if err != nil {
			return err
		}

		if input.Side != 0 {
			a, err = s.activities.AssignSide(ctx, userID, a.ID, input.Side)
			if err != nil {
				return err
			}
		}

		created = a
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("activity.Create: %w", err)
	}

	s.log.InfoContext(ctx, "activity created",
		slog.String("activity_id", created.ID.String()),
		slog.String("workspace_id", input.WorkspaceID.String()))
	return created, nil
}

// Get returns a single activity owned by the user.
func (s *Service) Get(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, userID, activityID)
	if err != nil {
		return nil, fmt.Errorf("activity.Get: %w", err)
	}
	return a, nil
}

// List returns all activities of a workspace.
func (s *Service) List(ctx context.Context, userID, workspaceID uuid.UUID) ([]*domain.Activity, error) {
	list, err := s.activities.ListByWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("activity.List: %w", err)
	}
	return list, nil
}

// Update changes an activity's name, description or color. Side bindings
// are managed separately through AssignSide and UnassignSide.
func (s *Service) Update(ctx context.Context, userID, activityID uuid.UUID, input UpdateInput) (*domain.Activity, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "required")
	}
	if len(name) > maxNameLength {
		return nil, domain.NewValidationError("name", "too long")
	}

	a, err := s.activities.Update(ctx, userID, activityID, name, input.Description, input.Color)
	if err != nil {
		return nil, fmt.Errorf("activity.Update: %w", err)
	}
	return a, nil
}

// Delete removes an activity and its recorded intervals.
func (s *Service) Delete(ctx context.Context, userID, activityID uuid.UUID) error {
	if err := s.activities.Delete(ctx, userID, activityID); err != nil {
		return fmt.Errorf("activity.Delete: %w", err)
	}
	return nil
}

// AssignSide binds an activity to a selector side. If another activity in
// the same workspace already holds the side, the binding moves.
func (s *Service) AssignSide(ctx context.Context, userID, activityID uuid.UUID, side int) (*domain.Activity, error) {
	if !domain.ValidSide(side) {
		return nil, domain.NewValidationError("side", "out of range")
	}

	var a *domain.Activity
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.activities.AssignSide(ctx, userID, activityID, side)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("activity.AssignSide: %w", err)
	}

	s.log.InfoContext(ctx, "side assigned",
		slog.String("activity_id", activityID.String()),
		slog.Int("side", side))
	return a, nil
}

// UnassignSide removes an activity's side binding.
func (s *Service) UnassignSide(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error) {
	a, err := s.activities.UnassignSide(ctx, userID, activityID)
	if err != nil {
		return nil, fmt.Errorf("activity.UnassignSide: %w", err)
	}
	return a, nil
}

// Active returns the activity currently being tracked together with the
// start of the open interval, or ErrNotFound when nothing is tracked.
func (s *Service) Active(ctx context.Context, userID uuid.UUID) (*ActiveActivity, error) {
	a, err := s.activities.GetActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("activity.Active: %w", err)
	}

	entry, err := s.entries.FindOpen(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Open entry disappeared between the two reads.
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("activity.Active entry: %w", err)
	}

	return &ActiveActivity{Activity: a, Since: entry.Start}, nil
}
