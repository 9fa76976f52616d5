package tracking

import (
	"context"
	"fmt"

	"github.com/rolltime/backend/internal/domain"
	"github.com/rolltime/backend/internal/observability"
)

// pruneIfShort discards the just-closed interval when it lasted less than
// MinIntervalDuration. A side bumped past an activity for a few seconds
// should not leave an entry behind. Only the entry being closed is ever
// considered; entries closed earlier, including short manual ones, are
// never revisited. Runs inside the stop transaction.
func (s *Service) pruneIfShort(ctx context.Context, entry *domain.TimeEntry) error {
	if s.cfg.MinIntervalDuration <= 0 || entry == nil || entry.End == nil {
		return nil
	}
	if entry.End.Sub(entry.Start) >= s.cfg.MinIntervalDuration {
		return nil
	}

	if err := s.entries.Delete(ctx, entry.UserID, entry.ID); err != nil {
		return fmt.Errorf("prune short interval: %w", err)
	}

	observability.PrunedIntervals.Inc()
	s.log.DebugContext(ctx, "pruned short interval", "user_id", entry.UserID, "entry_id", entry.ID)

	return nil
}
