package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
)

// deviceService defines the tracking engine surface driven by the
// hardware selector.
type deviceService interface {
	UpdateSide(ctx context.Context, userID uuid.UUID, side int) (*domain.TrackingResult, error)
	CurrentSide(ctx context.Context, userID uuid.UUID) (int, error)
	SetCharge(ctx context.Context, userID uuid.UUID, charge int) error
	Charge(ctx context.Context, userID uuid.UUID) int
}

// DeviceHandler serves the endpoints called by the physical selector
// firmware: side updates and battery charge reports.
type DeviceHandler struct {
	svc deviceService
	log *slog.Logger
}

// NewDeviceHandler creates a DeviceHandler.
func NewDeviceHandler(svc deviceService, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{svc: svc, log: logger.With("handler", "device")}
}

type sideResponse struct {
	Side       int        `json:"side"`
	ActivityID *string    `json:"activityId,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

type chargeResponse struct {
	Charge int `json:"charge"`
}

// UpdateSide handles POST /dice/side/{side}. The response reports the
// activity that was tracking before the update, if any.
func (h *DeviceHandler) UpdateSide(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	side, err := strconv.Atoi(r.PathValue("side"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid side")
		return
	}

	result, err := h.svc.UpdateSide(r.Context(), userID, side)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := sideResponse{Side: side, Timestamp: &result.Timestamp}
	if result.Started() {
		id := result.ActivityID.String()
		resp.ActivityID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

// CurrentSide handles GET /dice/side. Side 0 means nothing is tracked.
func (h *DeviceHandler) CurrentSide(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	side, err := h.svc.CurrentSide(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, sideResponse{Side: side})
}

// SetCharge handles PUT /dice/charge/{charge}.
func (h *DeviceHandler) SetCharge(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	charge, err := strconv.Atoi(r.PathValue("charge"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid charge")
		return
	}

	if err := h.svc.SetCharge(r.Context(), userID, charge); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, chargeResponse{Charge: charge})
}

// GetCharge handles GET /dice/charge.
func (h *DeviceHandler) GetCharge(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, chargeResponse{Charge: h.svc.Charge(r.Context(), userID)})
}
