package rest

import "net/http"

// Handlers groups the handler set mounted by NewRouter.
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Tracking  *TrackingHandler
	Device    *DeviceHandler
	Workspace *WorkspaceHandler
	Activity  *ActivityHandler
}

// NewRouter builds the route table. Authentication is enforced inside the
// handlers via the user ID placed in the context by the auth middleware.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /auth/logout", h.Auth.Logout)

	mux.HandleFunc("POST /tracking/start", h.Tracking.Start)
	mux.HandleFunc("POST /tracking/stop", h.Tracking.Stop)
	mux.HandleFunc("GET /tracking/active", h.Tracking.Active)

	mux.HandleFunc("POST /dice/side/{side}", h.Device.UpdateSide)
	mux.HandleFunc("GET /dice/side", h.Device.CurrentSide)
	mux.HandleFunc("PUT /dice/charge/{charge}", h.Device.SetCharge)
	mux.HandleFunc("GET /dice/charge", h.Device.GetCharge)

	mux.HandleFunc("GET /entries", h.Tracking.ListEntries)
	mux.HandleFunc("POST /entries", h.Tracking.AddEntry)
	mux.HandleFunc("PUT /entries/{id}", h.Tracking.UpdateEntry)
	mux.HandleFunc("DELETE /entries/{id}", h.Tracking.DeleteEntry)

	mux.HandleFunc("GET /workspaces", h.Workspace.List)
	mux.HandleFunc("POST /workspaces", h.Workspace.Create)
	mux.HandleFunc("GET /workspaces/{id}", h.Workspace.Get)
	mux.HandleFunc("PUT /workspaces/{id}", h.Workspace.Update)
	mux.HandleFunc("DELETE /workspaces/{id}", h.Workspace.Delete)
	mux.HandleFunc("POST /workspaces/{id}/switch", h.Tracking.SwitchWorkspace)
	mux.HandleFunc("GET /workspaces/{id}/activities", h.Activity.List)

	mux.HandleFunc("POST /activities", h.Activity.Create)
	mux.HandleFunc("GET /activities/active", h.Activity.Active)
	mux.HandleFunc("GET /activities/{id}", h.Activity.Get)
	mux.HandleFunc("PUT /activities/{id}", h.Activity.Update)
	mux.HandleFunc("DELETE /activities/{id}", h.Activity.Delete)
	mux.HandleFunc("PUT /activities/{id}/side/{side}", h.Activity.AssignSide)
	mux.HandleFunc("DELETE /activities/{id}/side", h.Activity.UnassignSide)

	return mux
}
