package middleware

import (
	"net/http"

	"github.com/elarca/resetweb/internal/ctxkeys"
)

// WithURLPath exposes the request path to pages (the 404 page echoes it)
func WithURLPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithURLPath(r.Context(), r.URL.Path)))
	})
}
