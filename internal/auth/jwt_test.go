package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestSessions(t *testing.T) *Sessions {
	t.Helper()
	s, err := NewSessions("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewSessions: %v", err)
	}
	return s
}

func TestNewSessions_ShortSecret(t *testing.T) {
	_, err := NewSessions("short")
	if err == nil {
		t.Fatal("NewSessions() should reject secrets shorter than 16 chars")
	}
}

func TestIssueAndVerify_Roundtrip(t *testing.T) {
	s := newTestSessions(t)

	token, err := s.Issue("user-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token is not a three-part JWT: %q", token)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want %q", claims.Username, "alice")
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "alice@example.com")
	}
	if claims.Expiry.Before(time.Now().Add(23 * time.Hour)) {
		t.Errorf("Expiry = %v, want roughly a day out", claims.Expiry)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	s := newTestSessions(t)
	other, err := NewSessions("a-completely-different-secret")
	if err != nil {
		t.Fatalf("NewSessions: %v", err)
	}

	token, err := s.Issue("user-1", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("Verify() should reject a token signed with a different secret")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	s := newTestSessions(t)

	token, err := s.IssueWithDuration("user-1", "alice", "alice@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	if _, err := s.Verify(token); err == nil {
		t.Error("Verify() should reject an expired token")
	}
}

func TestVerify_Garbage(t *testing.T) {
	s := newTestSessions(t)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := s.Verify(tok); err == nil {
			t.Errorf("Verify(%q) should fail", tok)
		}
	}
}
