package middleware

import (
	"net/http"
	"strings"
)

var corsMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
}

// CORS emits cross-origin headers on every response, including error
// responses, from the single configured origin. The origin is injected
// at construction — configuration is explicit, never read from process
// state inside the handler chain.
//
// Allow-Credentials is required because the session rides in a cookie.
// With credentials in play the origin must be the literal configured
// value, never "*".
func CORS(origin string) func(http.Handler) http.Handler {
	methods := strings.Join(corsMethods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Allow-Credentials", "true")

			// Preflight ends here; there is nothing to route.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
