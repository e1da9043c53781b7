package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// echoHandler records whether it ran and what claims it saw.
type echoHandler struct {
	called bool
	claims *SessionClaims
}

func (h *echoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.claims, _ = ClaimsFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestRequireSession_NoCookie(t *testing.T) {
	s := newTestSessions(t)
	next := &echoHandler{}

	req := httptest.NewRequest(http.MethodGet, "/api/venues", nil)
	rec := httptest.NewRecorder()
	RequireSession(s)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if next.called {
		t.Error("next handler should not run without a session cookie")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRequireSession_ValidCookie(t *testing.T) {
	s := newTestSessions(t)
	next := &echoHandler{}

	token, err := s.Issue("user-7", "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/venues", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	RequireSession(s)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !next.called {
		t.Fatal("next handler did not run")
	}
	if next.claims == nil || next.claims.UserID != "user-7" {
		t.Errorf("claims in context = %+v, want UserID user-7", next.claims)
	}
}

func TestRequireSession_ExpiredCookie(t *testing.T) {
	s := newTestSessions(t)
	next := &echoHandler{}

	token, err := s.IssueWithDuration("user-7", "bob", "bob@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/venues", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	RequireSession(s)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if next.called {
		t.Error("next handler should not run with an expired session")
	}
}

func TestClaimsFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := ClaimsFromContext(req.Context()); ok {
		t.Error("ClaimsFromContext should report false on a bare context")
	}
}
