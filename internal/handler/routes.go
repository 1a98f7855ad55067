package handler

import "net/http"

// RegisterRoutes mounts the payload and session endpoints on mux
func RegisterRoutes(mux *http.ServeMux, payload *PayloadHandler, sessions *SessionHandler) {
	mux.HandleFunc("GET /health", payload.HealthCheck)
	mux.HandleFunc("GET /api/data", payload.GetPayload)

	// Session routes
	mux.HandleFunc("POST /api/sessions", sessions.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessions.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessions.DeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/reload", sessions.ReloadSession)
	mux.HandleFunc("POST /api/sessions/{id}/items/{itemId}/toggle", sessions.ToggleItem)
	mux.HandleFunc("POST /api/sessions/{id}/folders/{folderId}/toggle", sessions.ToggleFolder)
	mux.HandleFunc("PATCH /api/sessions/{id}/folders/{folderId}", sessions.SetExpanded)
	mux.HandleFunc("POST /api/sessions/{id}/select-all", sessions.SelectAll)
	mux.HandleFunc("POST /api/sessions/{id}/clear", sessions.ClearAll)
}
