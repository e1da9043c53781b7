package auth

import "net/http"

// SessionCookie builds the session cookie. Domain is the parent domain
// shared by the app and API subdomains (e.g. ".example.com") so the
// browser presents the cookie to both; empty means host-only, which is
// what local development wants.
func SessionCookie(token, domain string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie returns the cookie that logs the browser out: same
// attributes, Max-Age that tells the browser to drop it immediately.
func ClearSessionCookie(domain string, secure bool) *http.Cookie {
	c := SessionCookie("", domain, secure)
	c.MaxAge = -1
	return c
}
