package handler

import (
	"log/slog"
	"net/http"

	treeRepo "treeview/internal/domain/repositories/tree"
	"treeview/internal/httputil"
)

// PayloadHandler serves the raw folder/item payload
type PayloadHandler struct {
	source treeRepo.PayloadSource
	logger *slog.Logger
}

// NewPayloadHandler creates a new payload handler
func NewPayloadHandler(source treeRepo.PayloadSource, logger *slog.Logger) *PayloadHandler {
	return &PayloadHandler{
		source: source,
		logger: logger,
	}
}

// GetPayload returns the payload exactly as the source holds it.
// The source is read on every request.
// GET /api/data
func (h *PayloadHandler) GetPayload(w http.ResponseWriter, r *http.Request) {
	payload, err := h.source.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load payload", "error", err, "request_id", httputil.GetRequestID(r))
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, payload)
}

// HealthCheck reports that the process is serving
// GET /health
func (h *PayloadHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
