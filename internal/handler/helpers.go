package handler

import (
	"errors"
	"net/http"

	"treeview/internal/client"
	"treeview/internal/domain"
	"treeview/internal/httputil"
	serviceTree "treeview/internal/service/tree"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var malformedErr *domain.MalformedPayloadError
	var transportErr *client.TransportError

	switch {
	case errors.Is(err, httputil.ErrBodyTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &malformedErr):
		extras := map[string]interface{}{"reason": malformedErr.Reason}
		if malformedErr.Section != "" {
			extras["section"] = malformedErr.Section
		}
		if malformedErr.Row >= 0 {
			extras["row"] = malformedErr.Row
		}
		httputil.RespondErrorWithExtras(w, malformedErr.StatusCode(), malformedErr.Error(), extras)
	case errors.As(err, &transportErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadGateway, transportErr.Message, map[string]interface{}{
			"upstream_status": transportErr.StatusCode,
			"attempts":        transportErr.Attempts,
		})
	case errors.Is(err, client.ErrPayloadTooLarge):
		httputil.RespondError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, serviceTree.ErrSuperseded):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrCapacity):
		httputil.RespondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
