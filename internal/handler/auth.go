package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/bandhub/backstage/internal/auth"
	"github.com/bandhub/backstage/internal/service"
)

// AuthHandler runs the browser-facing side of the OAuth login flow.
//
// Failure surfaces differ from the rest of the API on purpose: the
// browser is mid-navigation during /auth/callback, so errors become a
// redirect to the login page with an error query parameter, never a JSON
// body.
type AuthHandler struct {
	authSvc *service.AuthService

	// appURL is the post-login landing page; loginURL receives failed
	// logins with ?error=.
	appURL   string
	loginURL string

	cookieDomain  string
	secureCookies bool

	logger *slog.Logger
}

func NewAuthHandler(
	authSvc *service.AuthService,
	appURL, loginURL, cookieDomain string,
	secureCookies bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authSvc:       authSvc,
		appURL:        appURL,
		loginURL:      loginURL,
		cookieDomain:  cookieDomain,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// HandleLogin answers GET /auth/login: store a state token and redirect
// the browser to the identity provider.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	authURL, err := h.authSvc.BeginLogin(r.Context())
	if err != nil {
		h.logger.Error("begin login failed", slog.String("error", err.Error()))
		h.redirectWithError(w, r, "login_failed")
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback answers GET /auth/callback?code=...&state=... — the
// provider's redirect back to us. On success a session cookie is set and
// the browser continues to the app; on failure it lands on the login
// page with an error indicator.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	token, _, err := h.authSvc.CompleteLogin(r.Context(), q.Get("state"), q.Get("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidState):
			h.redirectWithError(w, r, "invalid_state")
		case errors.Is(err, service.ErrMissingCode):
			h.redirectWithError(w, r, "no_code")
		case errors.Is(err, service.ErrExchangeFailed):
			h.redirectWithError(w, r, "exchange_failed")
		default:
			h.logger.Error("callback failed", slog.String("error", err.Error()))
			h.redirectWithError(w, r, "login_failed")
		}
		return
	}

	http.SetCookie(w, auth.SessionCookie(token, h.cookieDomain, h.secureCookies))
	http.Redirect(w, r, h.appURL, http.StatusFound)
}

// HandleLogout answers POST /auth/logout by clearing the session cookie.
// The token remains technically valid until expiry; without the cookie
// the browser can no longer present it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie(h.cookieDomain, h.secureCookies))
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	target := h.loginURL
	if u, err := url.Parse(h.loginURL); err == nil {
		q := u.Query()
		q.Set("error", code)
		u.RawQuery = q.Encode()
		target = u.String()
	}
	http.Redirect(w, r, target, http.StatusFound)
}
