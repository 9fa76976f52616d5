package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
	"github.com/rolltime/backend/internal/service/activity"
)

// activityService defines the activity service interface needed by ActivityHandler.
type activityService interface {
	Create(ctx context.Context, userID uuid.UUID, input activity.CreateInput) (*domain.Activity, error)
	Get(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error)
	List(ctx context.Context, userID, workspaceID uuid.UUID) ([]*domain.Activity, error)
	Update(ctx context.Context, userID, activityID uuid.UUID, input activity.UpdateInput) (*domain.Activity, error)
	Delete(ctx context.Context, userID, activityID uuid.UUID) error
	AssignSide(ctx context.Context, userID, activityID uuid.UUID, side int) (*domain.Activity, error)
	UnassignSide(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error)
	Active(ctx context.Context, userID uuid.UUID) (*activity.ActiveActivity, error)
}

// ActivityHandler serves activity REST endpoints.
type ActivityHandler struct {
	svc activityService
	log *slog.Logger
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(svc activityService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: logger.With("handler", "activity")}
}

type createActivityRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Side        int    `json:"side"`
}

type updateActivityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

type activityResponse struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       int    `json:"color"`
	Side        *int16 `json:"side,omitempty"`
}

type activeActivityResponse struct {
	Activity activityResponse `json:"activity"`
	Since    time.Time        `json:"since"`
}

// Create handles POST /activities.
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	workspaceID, err := uuid.Parse(req.WorkspaceID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workspaceId")
		return
	}

	a, err := h.svc.Create(r.Context(), userID, activity.CreateInput{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Side:        req.Side,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toActivityResponse(a))
}

// Get handles GET /activities/{id}.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.svc.Get(r.Context(), userID, activityID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityResponse(a))
}

// List handles GET /workspaces/{id}/activities.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	workspaceID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.svc.List(r.Context(), userID, workspaceID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := make([]activityResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toActivityResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /activities/{id}.
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.svc.Update(r.Context(), userID, activityID, activity.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityResponse(a))
}

// Delete handles DELETE /activities/{id}.
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), userID, activityID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AssignSide handles PUT /activities/{id}/side/{side}.
func (h *ActivityHandler) AssignSide(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	side, err := strconv.Atoi(r.PathValue("side"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid side")
		return
	}

	a, err := h.svc.AssignSide(r.Context(), userID, activityID, side)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityResponse(a))
}

// UnassignSide handles DELETE /activities/{id}/side.
func (h *ActivityHandler) UnassignSide(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	activityID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.svc.UnassignSide(r.Context(), userID, activityID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toActivityResponse(a))
}

// Active handles GET /activities/active. Responds 204 when nothing is
// currently tracked.
func (h *ActivityHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	active, err := h.svc.Active(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, activeActivityResponse{
		Activity: toActivityResponse(active.Activity),
		Since:    active.Since,
	})
}

func toActivityResponse(a *domain.Activity) activityResponse {
	return activityResponse{
		ID:          a.ID.String(),
		WorkspaceID: a.WorkspaceID.String(),
		Name:        a.Name,
		Description: a.Description,
		Color:       a.Color,
		Side:        a.SideID,
	}
}
