// Package auth provides session tokens, the OIDC login flow, and the
// middleware that guards authenticated routes.
//
// Sessions are stateless: everything a request needs (user id, username,
// email, expiry) lives inside a signed JWT carried in an HttpOnly cookie.
// There is no server-side session store, so "logout" is just clearing the
// cookie, and verification is a pure computation over (token, secret).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session stays valid. The cookie
// Max-Age is kept in lockstep so the browser drops the cookie when the
// token inside it would stop verifying anyway.
const SessionTTL = 24 * time.Hour

const issuer = "backstage"

// SessionClaims is what a verified session token decodes to. UserID is
// the provider subject (the users table key); Username and Email are
// denormalised into the token so /api handlers can log and display the
// caller without a user lookup.
type SessionClaims struct {
	UserID   string
	Username string
	Email    string
	IssuedAt time.Time
	Expiry   time.Time
}

type sessionJWT struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Sessions signs and verifies session tokens with a shared HMAC secret.
type Sessions struct {
	secret []byte
}

// NewSessions creates a Sessions with the given secret. The secret should
// be at least 32 bytes of random data in production.
func NewSessions(secret string) (*Sessions, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &Sessions{secret: []byte(secret)}, nil
}

// Issue creates and signs a session token for the given identity.
func (s *Sessions) Issue(userID, username, email string) (string, error) {
	return s.IssueWithDuration(userID, username, email, SessionTTL)
}

// IssueWithDuration issues a token with a custom lifetime. Used by tests
// to mint already-expired tokens.
func (s *Sessions) IssueWithDuration(userID, username, email string, d time.Duration) (string, error) {
	now := time.Now()

	c := sessionJWT{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and verifies a session token string.
//
// Checks performed by the jwt library: signature, expiry, issuer, and
// that the algorithm really is HS256 — jwt.WithValidMethods closes the
// algorithm-confusion hole where a token signed with "none" sneaks past.
//
// Callers must treat every failure uniformly as "unauthenticated"; the
// distinction between absent, malformed, and expired matters for logs
// only, never for the response.
func (s *Sessions) Verify(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionJWT{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*sessionJWT)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	claims := &SessionClaims{
		UserID:   c.Subject,
		Username: c.Username,
		Email:    c.Email,
	}
	if c.IssuedAt != nil {
		claims.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		claims.Expiry = c.ExpiresAt.Time
	}

	return claims, nil
}
