package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"treeview/internal/httputil"
)

// RequestID tags every request with a correlation id.
// An id supplied by the caller in X-Request-ID is kept; otherwise a new one is generated.
// The id is echoed back in the response header.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(httputil.RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(httputil.RequestIDHeader, id)
			next.ServeHTTP(w, httputil.WithRequestID(r, id))
		})
	}
}
