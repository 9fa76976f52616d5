package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
	"github.com/rolltime/backend/internal/observability"
)

// UpdateSide handles a hardware side report. Side 0 means the device is on
// its stop face and only closes the open interval. Any other side resolves
// to the activity bound to it in the user's active workspace; an unbound
// side closes the open interval without opening a new one. A report of the
// side already being tracked still closes the interval and opens a fresh
// one, so repeated reports produce separate entries.
//
// The open happens before the close on purpose: the previous interval is
// captured by identity first, so the close can never hit the interval that
// was just opened. The result carries the activity that was open BEFORE
// the call (zero UUID when none), matching what the hardware needs to
// acknowledge: which tracking it interrupted.
func (s *Service) UpdateSide(ctx context.Context, userID uuid.UUID, side int) (*domain.TrackingResult, error) {
	if side < 0 || side > domain.MaxSide {
		return nil, domain.NewValidationError("side", fmt.Sprintf("must be between 0 and %d", domain.MaxSide))
	}

	s.device.setSide(userID, side)

	if side == 0 {
		return s.StopTracking(ctx, userID)
	}

	now := s.now()

	var (
		previous *domain.TimeEntry
		started  *domain.Activity
	)

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetForUpdate(ctx, userID); err != nil {
			return err
		}

		// Capture the open interval before anything else. Its identity is
		// what gets closed below, never "whatever is open at that point".
		var err error
		previous, err = s.entries.FindOpen(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		started, err = s.activities.ResolveSide(ctx, userID, side)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if started != nil {
			if _, err := s.entries.Open(ctx, &domain.TimeEntry{
				ID:         uuid.New(),
				ActivityID: started.ID,
				UserID:     userID,
				Start:      now,
			}); err != nil {
				return err
			}
		}

		if previous != nil {
			if _, err := s.entries.Close(ctx, previous.ID, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update side: %w", err)
	}

	result := &domain.TrackingResult{Timestamp: now}
	if previous != nil {
		result.ActivityID = previous.ActivityID
	}

	observability.TrackingTransitions.WithLabelValues("side").Inc()
	s.log.InfoContext(ctx, "side updated", "user_id", userID, "side", side)

	switch {
	case started != nil:
		s.notifyStopped(ctx, userID)
		s.notifyStarted(ctx, userID, started.ID, now)
	case previous != nil:
		s.notifyStopped(ctx, userID)
	}

	return result, nil
}
