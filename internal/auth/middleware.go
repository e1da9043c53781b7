package auth

import (
	"context"
	"net/http"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// contextKey is unexported so only this package can read or write session
// claims in a request context.
type contextKey struct{}

var claimsKey contextKey

// RequireSession enforces authentication on protected routes.
//
// It reads the session JWT from the cookie, verifies it, and stores the
// claims in the request context. Absent, malformed, and expired tokens
// all produce the same 401 body — callers cannot probe which failure
// occurred.
func RequireSession(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractClaims(r, sessions)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the verified session claims placed by
// RequireSession. Returns (nil, false) on an unauthenticated request.
func ClaimsFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*SessionClaims)
	return claims, ok && claims != nil
}

func extractClaims(r *http.Request, sessions *Sessions) (*SessionClaims, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, err
	}
	return sessions.Verify(cookie.Value)
}
