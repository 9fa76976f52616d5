package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rolltime/backend/internal/domain"
	"github.com/rolltime/backend/internal/service/workspace"
)

// workspaceService defines the workspace service interface needed by WorkspaceHandler.
type workspaceService interface {
	Create(ctx context.Context, userID uuid.UUID, input workspace.CreateInput) (*domain.Workspace, error)
	Get(ctx context.Context, userID, workspaceID uuid.UUID) (*domain.Workspace, error)
	List(ctx context.Context, userID uuid.UUID, input workspace.ListInput) ([]*domain.Workspace, error)
	Update(ctx context.Context, userID, workspaceID uuid.UUID, input workspace.CreateInput) (*domain.Workspace, error)
	Delete(ctx context.Context, userID, workspaceID uuid.UUID) error
}

// WorkspaceHandler serves workspace REST endpoints.
type WorkspaceHandler struct {
	svc workspaceService
	log *slog.Logger
}

// NewWorkspaceHandler creates a WorkspaceHandler.
func NewWorkspaceHandler(svc workspaceService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{svc: svc, log: logger.With("handler", "workspace")}
}

type workspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type workspaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Create handles POST /workspaces.
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req workspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws, err := h.svc.Create(r.Context(), userID, workspace.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWorkspaceResponse(ws))
}

// Get handles GET /workspaces/{id}.
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	workspaceID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	ws, err := h.svc.Get(r.Context(), userID, workspaceID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkspaceResponse(ws))
}

// List handles GET /workspaces?q=&limit=&offset=.
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	list, err := h.svc.List(r.Context(), userID, workspace.ListInput{
		Query:  r.URL.Query().Get("q"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := make([]workspaceResponse, 0, len(list))
	for _, ws := range list {
		resp = append(resp, toWorkspaceResponse(ws))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /workspaces/{id}.
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	workspaceID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req workspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ws, err := h.svc.Update(r.Context(), userID, workspaceID, workspace.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkspaceResponse(ws))
}

// Delete handles DELETE /workspaces/{id}. The default workspace responds 403.
func (h *WorkspaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	workspaceID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), userID, workspaceID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toWorkspaceResponse(ws *domain.Workspace) workspaceResponse {
	return workspaceResponse{
		ID:          ws.ID.String(),
		Name:        ws.Name,
		Description: ws.Description,
		IsDefault:   ws.IsDefault,
		CreatedAt:   ws.CreatedAt,
	}
}
