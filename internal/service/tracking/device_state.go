package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
)

// deviceState is the per-user hardware scratch state. It lives only in
// memory; losing it on restart is fine, the device re-reports on its next
// heartbeat.
type deviceState struct {
	side   int
	charge int
}

// DeviceStateStore keeps the last reported side and battery charge per user.
type DeviceStateStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]deviceState
}

// NewDeviceStateStore creates an empty store.
func NewDeviceStateStore() *DeviceStateStore {
	return &DeviceStateStore{states: make(map[uuid.UUID]deviceState)}
}

func (d *DeviceStateStore) setSide(userID uuid.UUID, side int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.states[userID]
	st.side = side
	d.states[userID] = st
}

func (d *DeviceStateStore) setCharge(userID uuid.UUID, charge int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.states[userID]
	st.charge = charge
	d.states[userID] = st
}

func (d *DeviceStateStore) get(userID uuid.UUID) deviceState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.states[userID]
}

// SetCharge records the battery charge reported by the user's device.
func (s *Service) SetCharge(ctx context.Context, userID uuid.UUID, charge int) error {
	if charge < 0 || charge > 100 {
		return domain.NewValidationError("charge", "must be between 0 and 100")
	}
	s.device.setCharge(userID, charge)
	return nil
}

// Charge returns the last reported battery charge, 0 when never reported.
func (s *Service) Charge(ctx context.Context, userID uuid.UUID) int {
	return s.device.get(userID).charge
}

// CurrentSide returns the side bound to the activity of the open interval,
// or 0 when nothing is tracked or the activity has no side.
func (s *Service) CurrentSide(ctx context.Context, userID uuid.UUID) (int, error) {
	activity, err := s.activities.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("current side: %w", err)
	}
	if activity.SideID == nil {
		return 0, nil
	}
	return int(*activity.SideID), nil
}
