// Package config holds the explicit configuration passed into every
// constructor. Nothing in the application reads environment variables or
// package-level state after startup: main builds one Config and hands
// pieces of it down, which keeps handlers testable with throwaway values.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// OAuth is the identity-provider configuration. AuthURL and TokenURL are
// the hosted endpoint URLs (for Cognito these live under the user pool's
// domain).
type OAuth struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	CallbackURL  string
}

// Config is the full server configuration.
type Config struct {
	Port          int
	DBPath        string
	SessionSecret string

	// CORSOrigin is the single allowed origin; CORS headers on every
	// response are built from it.
	CORSOrigin string

	// CookieDomain is the shared parent domain for the session cookie
	// (cross-subdomain). Empty means host-only.
	CookieDomain  string
	SecureCookies bool

	// AppURL is where the browser lands after a successful login;
	// LoginURL is where OAuth failures redirect with an error query
	// parameter.
	AppURL   string
	LoginURL string

	OAuth OAuth
}

// FromEnv builds a Config from environment variables, applying local
// development defaults for everything except the session secret and
// OAuth client credentials, which have no safe default.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          8080,
		DBPath:        "data/backstage.db",
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CORSOrigin:    envOr("CORS_ORIGIN", "http://localhost:3000"),
		CookieDomain:  os.Getenv("COOKIE_DOMAIN"),
		SecureCookies: os.Getenv("SECURE_COOKIES") == "true",
		AppURL:        envOr("APP_URL", "http://localhost:3000"),
		LoginURL:      envOr("LOGIN_URL", "http://localhost:3000/login"),
		OAuth: OAuth{
			ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
			ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
			AuthURL:      os.Getenv("OAUTH_AUTH_URL"),
			TokenURL:     os.Getenv("OAUTH_TOKEN_URL"),
			CallbackURL:  os.Getenv("OAUTH_CALLBACK_URL"),
		},
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("config: SESSION_SECRET is required")
	}

	if cfg.OAuth.CallbackURL == "" {
		cfg.OAuth.CallbackURL = fmt.Sprintf("http://localhost:%d/auth/callback", cfg.Port)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
