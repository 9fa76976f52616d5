package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
	"github.com/rolltime/backend/internal/observability"
)

// SwitchWorkspace makes the given workspace the user's active one and
// carries tracking over: when the open interval's activity is bound to a
// side, the same side is re-resolved in the destination workspace and a
// new interval opens for whatever activity holds it there. The result
// carries the newly opened activity, zero UUID when nothing carried over.
func (s *Service) SwitchWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.TrackingResult, error) {
	now := s.now()

	var (
		closed  *domain.TimeEntry
		carried *domain.Activity
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetForUpdate(ctx, userID); err != nil {
			return err
		}

		// Ownership check before any mutation.
		if _, err := s.workspaces.GetByID(ctx, userID, workspaceID); err != nil {
			return err
		}

		open, err := s.entries.FindOpen(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		// Remember which side the running activity was on; that binding is
		// what travels to the destination workspace.
		var carriedSide *int16
		if open != nil {
			activity, err := s.activities.GetByID(ctx, userID, open.ActivityID)
			if err != nil {
				return err
			}
			carriedSide = activity.SideID

			closed, err = s.entries.Close(ctx, open.ID, now)
			if err != nil {
				return err
			}
		}

		if err := s.users.SetActiveWorkspace(ctx, userID, workspaceID); err != nil {
			return err
		}

		if carriedSide == nil {
			return nil
		}

		carried, err = s.activities.ResolveSideIn(ctx, workspaceID, int(*carriedSide))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Side unbound in the destination, tracking simply ends.
				carried = nil
				return nil
			}
			return err
		}

		_, err = s.entries.Open(ctx, &domain.TimeEntry{
			ID:         uuid.New(),
			ActivityID: carried.ID,
			UserID:     userID,
			Start:      now,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("switch workspace: %w", err)
	}

	observability.TrackingTransitions.WithLabelValues("workspace_switch").Inc()
	s.log.InfoContext(ctx, "workspace switched", "user_id", userID, "workspace_id", workspaceID)

	if closed != nil {
		s.notifyStopped(ctx, userID)
	}

	result := &domain.TrackingResult{Timestamp: now}
	if carried != nil {
		result.ActivityID = carried.ID
		s.notifyStarted(ctx, userID, carried.ID, now)
	}

	return result, nil
}
