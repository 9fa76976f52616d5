package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/adapter/postgres/timeentry"
	"github.com/rolltime/backend/internal/domain"
)

// HistoryInput narrows a history listing. WorkspaceID nil means the user's
// active workspace; ActivityIDs, From and To are optional.
type HistoryInput struct {
	WorkspaceID *uuid.UUID
	ActivityIDs []uuid.UUID
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

// EntryInput describes a manual history entry. End nil means the entry is
// open-ended; the storage constraint rejects a second open entry.
type EntryInput struct {
	ActivityID  uuid.UUID
	Description string
	Start       time.Time
	End         *time.Time
}

func (in EntryInput) validate() error {
	var errs []domain.FieldError
	if in.ActivityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "activity_id", Message: "is required"})
	}
	if in.Start.IsZero() {
		errs = append(errs, domain.FieldError{Field: "start", Message: "is required"})
	}
	if in.End != nil && !in.End.After(in.Start) {
		errs = append(errs, domain.FieldError{Field: "end", Message: "must be after start"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListEntries returns the user's tracking history, newest first. Without an
// explicit workspace the active workspace is used; an explicit zero UUID
// spans all workspaces.
func (s *Service) ListEntries(ctx context.Context, userID uuid.UUID, in HistoryInput) ([]*domain.TimeEntry, error) {
	if !in.From.IsZero() && !in.To.IsZero() && in.To.Before(in.From) {
		return nil, domain.NewValidationError("to", "must not be before from")
	}

	limit := in.Limit
	if limit <= 0 || limit > s.cfg.HistoryMaxPageSize {
		limit = s.cfg.HistoryMaxPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	filter := timeentry.ListFilter{
		ActivityIDs: in.ActivityIDs,
		From:        in.From,
		To:          in.To,
		Limit:       limit,
		Offset:      offset,
	}

	if in.WorkspaceID != nil {
		filter.WorkspaceID = *in.WorkspaceID
	} else {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		if user.ActiveWorkspaceID != nil {
			filter.WorkspaceID = *user.ActiveWorkspaceID
		}
	}

	entries, err := s.entries.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// AddEntry records a manual history entry. The activity must belong to the
// user.
func (s *Service) AddEntry(ctx context.Context, userID uuid.UUID, in EntryInput) (*domain.TimeEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.activities.GetByID(ctx, userID, in.ActivityID); err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}

	entry, err := s.entries.Create(ctx, &domain.TimeEntry{
		ID:          uuid.New(),
		ActivityID:  in.ActivityID,
		UserID:      userID,
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
	})
	if err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry rewrites an existing history entry.
func (s *Service) UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, in EntryInput) (*domain.TimeEntry, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.activities.GetByID(ctx, userID, in.ActivityID); err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	entry, err := s.entries.Update(ctx, &domain.TimeEntry{
		ID:          entryID,
		ActivityID:  in.ActivityID,
		UserID:      userID,
		Description: in.Description,
		Start:       in.Start,
		End:         in.End,
	})
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	return entry, nil
}

// DeleteEntry removes a history entry.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	if err := s.entries.Delete(ctx, userID, entryID); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// ActiveEntry returns the user's open interval, domain.ErrNotFound when
// nothing is tracked.
func (s *Service) ActiveEntry(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error) {
	entry, err := s.entries.FindOpen(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("active entry: %w", err)
	}
	return entry, nil
}
