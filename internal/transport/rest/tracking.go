package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
	"github.com/rolltime/backend/internal/service/tracking"
)

// trackingService defines the tracking engine interface needed by TrackingHandler.
type trackingService interface {
	StartTracking(ctx context.Context, userID, activityID uuid.UUID, description string) (*domain.TrackingResult, error)
	StopTracking(ctx context.Context, userID uuid.UUID) (*domain.TrackingResult, error)
	SwitchWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.TrackingResult, error)
	ActiveEntry(ctx context.Context, userID uuid.UUID) (*domain.TimeEntry, error)
	ListEntries(ctx context.Context, userID uuid.UUID, in tracking.HistoryInput) ([]*domain.TimeEntry, error)
	AddEntry(ctx context.Context, userID uuid.UUID, in tracking.EntryInput) (*domain.TimeEntry, error)
	UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, in tracking.EntryInput) (*domain.TimeEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error
}

// TrackingHandler serves tracking transition and history endpoints.
type TrackingHandler struct {
	svc trackingService
	log *slog.Logger
}

// NewTrackingHandler creates a TrackingHandler.
func NewTrackingHandler(svc trackingService, logger *slog.Logger) *TrackingHandler {
	return &TrackingHandler{svc: svc, log: logger.With("handler", "tracking")}
}

type startRequest struct {
	ActivityID  string `json:"activityId"`
	Description string `json:"description"`
}

type transitionResponse struct {
	ActivityID *string   `json:"activityId"`
	Timestamp  time.Time `json:"timestamp"`
}

type entryRequest struct {
	ActivityID  string     `json:"activityId"`
	Description string     `json:"description"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end"`
}

type entryResponse struct {
	ID          string     `json:"id"`
	ActivityID  string     `json:"activityId"`
	Description string     `json:"description,omitempty"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
}

// Start handles POST /tracking/start.
func (h *TrackingHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid activityId")
		return
	}

	result, err := h.svc.StartTracking(r.Context(), userID, activityID, req.Description)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransitionResponse(result))
}

// Stop handles POST /tracking/stop.
func (h *TrackingHandler) Stop(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.svc.StopTracking(r.Context(), userID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransitionResponse(result))
}

// Active handles GET /tracking/active. Responds 204 when nothing is
// currently tracked.
func (h *TrackingHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.ActiveEntry(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// SwitchWorkspace handles POST /workspaces/{id}/switch.
func (h *TrackingHandler) SwitchWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	workspaceID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.svc.SwitchWorkspace(r.Context(), userID, workspaceID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransitionResponse(result))
}

// ListEntries handles GET /entries with optional filters:
// workspace (UUID, "all" spans every workspace), activity (repeatable UUID),
// from/to (RFC 3339), limit, offset.
func (h *TrackingHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	in := tracking.HistoryInput{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	q := r.URL.Query()
	switch ws := q.Get("workspace"); ws {
	case "":
		// Defaults to the active workspace.
	case "all":
		all := uuid.Nil
		in.WorkspaceID = &all
	default:
		id, err := uuid.Parse(ws)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid workspace")
			return
		}
		in.WorkspaceID = &id
	}

	for _, raw := range q["activity"] {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid activity")
			return
		}
		in.ActivityIDs = append(in.ActivityIDs, id)
	}

	if v := q.Get("from"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from")
			return
		}
		in.From = ts
	}
	if v := q.Get("to"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to")
			return
		}
		in.To = ts
	}

	entries, err := h.svc.ListEntries(r.Context(), userID, in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddEntry handles POST /entries.
func (h *TrackingHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	in, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.AddEntry(r.Context(), userID, in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// UpdateEntry handles PUT /entries/{id}.
func (h *TrackingHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	in, ok := decodeEntryRequest(w, r)
	if !ok {
		return
	}

	entry, err := h.svc.UpdateEntry(r.Context(), userID, entryID, in)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

// DeleteEntry handles DELETE /entries/{id}.
func (h *TrackingHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	entryID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), userID, entryID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeEntryRequest(w http.ResponseWriter, r *http.Request) (tracking.EntryInput, bool) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return tracking.EntryInput{}, false
	}
	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid activityId")
		return tracking.EntryInput{}, false
	}
	return tracking.EntryInput{
		ActivityID:  activityID,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
	}, true
}

func toTransitionResponse(result *domain.TrackingResult) transitionResponse {
	resp := transitionResponse{Timestamp: result.Timestamp}
	if result.Started() {
		id := result.ActivityID.String()
		resp.ActivityID = &id
	}
	return resp
}

func toEntryResponse(e *domain.TimeEntry) entryResponse {
	return entryResponse{
		ID:          e.ID.String(),
		ActivityID:  e.ActivityID.String(),
		Description: e.Description,
		Start:       e.Start,
		End:         e.End,
	}
}
