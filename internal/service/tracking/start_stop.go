package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
	"github.com/rolltime/backend/internal/observability"
)

// StartTracking closes the user's open interval, if any, and opens a new
// one for the given activity, both at the same instant. The activity must
// belong to the user; otherwise domain.ErrNotFound and nothing changes.
func (s *Service) StartTracking(ctx context.Context, userID, activityID uuid.UUID, description string) (*domain.TrackingResult, error) {
	now := s.now()

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetForUpdate(ctx, userID); err != nil {
			return err
		}

		if _, err := s.activities.GetByID(ctx, userID, activityID); err != nil {
			return err
		}

		previous, err := s.entries.FindOpen(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if _, err := s.entries.Open(ctx, &domain.TimeEntry{
			ID:          uuid.New(),
			ActivityID:  activityID,
			UserID:      userID,
			Description: description,
			Start:       now,
		}); err != nil {
			return err
		}

		if previous != nil {
			if _, err := s.entries.Close(ctx, previous.ID, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("start tracking: %w", err)
	}

	observability.TrackingTransitions.WithLabelValues("start").Inc()
	s.log.InfoContext(ctx, "tracking started", "user_id", userID, "activity_id", activityID)
	s.notifyStarted(ctx, userID, activityID, now)

	return &domain.TrackingResult{ActivityID: activityID, Timestamp: now}, nil
}

// StopTracking closes the user's open interval and prunes it when it was
// shorter than the configured minimum. Stopping when nothing is tracked
// succeeds and changes nothing.
func (s *Service) StopTracking(ctx context.Context, userID uuid.UUID) (*domain.TrackingResult, error) {
	now := s.now()

	var stopped *domain.TimeEntry

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetForUpdate(ctx, userID); err != nil {
			return err
		}

		open, err := s.entries.FindOpen(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}

		stopped, err = s.entries.Close(ctx, open.ID, now)
		if err != nil {
			return err
		}

		return s.pruneIfShort(ctx, stopped)
	})
	if err != nil {
		return nil, fmt.Errorf("stop tracking: %w", err)
	}

	result := &domain.TrackingResult{Timestamp: now}
	if stopped == nil {
		return result, nil
	}

	result.ActivityID = stopped.ActivityID
	observability.TrackingTransitions.WithLabelValues("stop").Inc()
	observability.IntervalDuration.Observe(now.Sub(stopped.Start).Seconds())
	s.log.InfoContext(ctx, "tracking stopped", "user_id", userID, "activity_id", stopped.ActivityID)
	s.notifyStopped(ctx, userID)

	return result, nil
}
