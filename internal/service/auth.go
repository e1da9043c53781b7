package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bandhub/backstage/internal/auth"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

// StateTTL bounds how long a login may sit between the authorize
// redirect and the provider callback.
const StateTTL = 5 * time.Minute

// Sentinel errors for the OAuth callback. The handler maps each to a
// redirect query parameter, never a JSON body — the browser is
// mid-navigation when these happen.
var (
	ErrInvalidState   = errors.New("invalid or expired oauth state")
	ErrMissingCode    = errors.New("missing authorization code")
	ErrExchangeFailed = errors.New("authorization code exchange failed")
)

// IdentityProvider is the slice of auth.Provider the auth flow needs.
// Tests substitute a fake so no network is involved.
type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.IdentityClaims, error)
}

type AuthService struct {
	provider IdentityProvider
	sessions *auth.Sessions
	states   repository.OAuthStateRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewAuthService(
	provider IdentityProvider,
	sessions *auth.Sessions,
	states repository.OAuthStateRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		provider: provider,
		sessions: sessions,
		states:   states,
		users:    users,
		logger:   logger,
	}
}

// BeginLogin stores a fresh single-use state token and returns the
// provider URL to redirect the browser to. The state lives in shared
// storage, not process memory: the callback may be served by a different
// process than the one that issued the redirect.
func (s *AuthService) BeginLogin(ctx context.Context) (string, error) {
	state := uuid.NewString()

	if err := s.states.PutState(ctx, state, time.Now().Add(StateTTL)); err != nil {
		return "", fmt.Errorf("storing oauth state: %w", err)
	}

	return s.provider.AuthURL(state), nil
}

// CompleteLogin finishes the callback: consume the state (CSRF check),
// exchange the code, upsert the user from the identity claims, and
// return a signed session token plus the user record.
//
// The state check runs first and unconditionally consumes the token, so
// a replayed callback fails even if everything else about it is valid.
func (s *AuthService) CompleteLogin(ctx context.Context, state, code string) (string, *model.User, error) {
	if state == "" {
		return "", nil, ErrInvalidState
	}

	ok, err := s.states.ConsumeState(ctx, state, time.Now())
	if err != nil {
		return "", nil, fmt.Errorf("consuming oauth state: %w", err)
	}
	if !ok {
		s.logger.Warn("oauth callback with unknown or reused state")
		return "", nil, ErrInvalidState
	}

	if code == "" {
		return "", nil, ErrMissingCode
	}

	claims, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("oauth code exchange failed", slog.String("error", err.Error()))
		return "", nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	user := &model.User{
		CognitoID: claims.Subject,
		Email:     claims.Email,
		Username:  claims.Username,
		AvatarURL: claims.Picture,
	}
	if err := s.users.UpsertUser(ctx, user); err != nil {
		s.logger.Error("user upsert failed",
			slog.String("subject", claims.Subject),
			slog.String("error", err.Error()),
		)
		return "", nil, fmt.Errorf("upserting user: %w", err)
	}

	token, err := s.sessions.Issue(user.CognitoID, user.Username, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issuing session: %w", err)
	}

	s.logger.Info("user authenticated",
		slog.String("user_id", user.CognitoID),
		slog.String("username", user.Username),
	)

	return token, user, nil
}
