package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"treeview/internal/config"
	"treeview/internal/domain"
	models "treeview/internal/domain/models/tree"
	treeSvc "treeview/internal/domain/services/tree"
	"treeview/internal/httputil"
)

// SessionHandler handles HTTP requests for selection sessions
type SessionHandler struct {
	sessionService treeSvc.SessionService
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService treeSvc.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// CreateSession loads the tree into a new session
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionService.Create(r.Context())
	if err != nil {
		h.logger.Warn("session create failed", "error", err, "request_id", httputil.GetRequestID(r))
		handleError(w, err)
		return
	}

	w.Header().Set("Location", "/api/sessions/"+view.ID)
	httputil.RespondJSON(w, http.StatusCreated, view)
}

// GetSession returns the current session view
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionService.Get(r.Context(), r.PathValue("id"))
	respond(w, view, err)
}

// DeleteSession tears a session down
// DELETE /api/sessions/{id}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReloadSession re-fetches the payload and rebuilds the tree
// POST /api/sessions/{id}/reload
func (h *SessionHandler) ReloadSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionService.Reload(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Warn("session reload failed",
			"session_id", r.PathValue("id"),
			"error", err,
			"request_id", httputil.GetRequestID(r),
		)
	}
	respond(w, view, err)
}

// ToggleItem flips one item's selection
// POST /api/sessions/{id}/items/{itemId}/toggle
func (h *SessionHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("itemId"), 10, 64)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "item ID must be an integer")
		return
	}

	view, err := h.sessionService.ToggleItem(r.Context(), r.PathValue("id"), itemID)
	respond(w, view, err)
}

// ToggleFolder selects or deselects every item under a folder
// POST /api/sessions/{id}/folders/{folderId}/toggle
func (h *SessionHandler) ToggleFolder(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionService.ToggleFolder(r.Context(), r.PathValue("id"), r.PathValue("folderId"))
	respond(w, view, err)
}

// SetExpanded expands or collapses a folder
// PATCH /api/sessions/{id}/folders/{folderId}
func (h *SessionHandler) SetExpanded(w http.ResponseWriter, r *http.Request) {
	var req treeSvc.SetExpandedRequest
	if err := httputil.ParseJSON(w, r, &req, config.MaxRequestBodyBytes); err != nil {
		if !errors.Is(err, httputil.ErrBodyTooLarge) {
			err = &domain.ValidationError{Message: err.Error()}
		}
		handleError(w, err)
		return
	}
	req.SessionID = r.PathValue("id")
	req.FolderID = r.PathValue("folderId")

	view, err := h.sessionService.SetExpanded(r.Context(), &req)
	respond(w, view, err)
}

// SelectAll selects every item
// POST /api/sessions/{id}/select-all
func (h *SessionHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionService.SelectAll(r.Context(), r.PathValue("id"))
	respond(w, view, err)
}

// ClearAll empties the selection
// POST /api/sessions/{id}/clear
func (h *SessionHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessionService.ClearAll(r.Context(), r.PathValue("id"))
	respond(w, view, err)
}

func respond(w http.ResponseWriter, view *models.SessionView, err error) {
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, view)
}
