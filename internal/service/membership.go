package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

type MembershipInput struct {
	UserID      string   `json:"user_id"`
	ArtistID    string   `json:"artist_id"`
	Role        string   `json:"role"`
	DisplayName *string  `json:"display_name"`
	AvatarURL   *string  `json:"avatar_url"`
	Instrument  *string  `json:"instrument"`
	Permissions []string `json:"permissions"`
}

// MembershipPatch carries only the fields present in the request. For
// the profile overrides, an explicit empty string clears the override so
// the field inherits from the user profile again; absent means "leave the
// override alone".
type MembershipPatch struct {
	Role        *string   `json:"role"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Instrument  *string   `json:"instrument"`
	Permissions *[]string `json:"permissions"`
}

// MembershipView is a membership plus its resolved profile. The profile
// is recomputed on every read, so user-level edits show up immediately
// on all memberships.
type MembershipView struct {
	model.Membership
	Profile model.ResolvedProfile `json:"profile"`
}

type MembershipService struct {
	memberships repository.MembershipRepository
	users       repository.UserRepository
	logger      *slog.Logger
}

func NewMembershipService(
	memberships repository.MembershipRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *MembershipService {
	return &MembershipService{
		memberships: memberships,
		users:       users,
		logger:      logger,
	}
}

func (s *MembershipService) Create(ctx context.Context, in MembershipInput) (*MembershipView, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.ArtistID = strings.TrimSpace(in.ArtistID)
	if in.UserID == "" {
		return nil, apperror.ValidationFailed("user_id", "user ID is required")
	}
	if in.ArtistID == "" {
		return nil, apperror.ValidationFailed("artist_id", "artist ID is required")
	}
	if in.Role == "" {
		in.Role = "member"
	}
	if !model.ValidEnumValue(in.Role, model.MembershipRoles) {
		return nil, apperror.InvalidEnum("role", in.Role, model.MembershipRoles)
	}

	m := &model.Membership{
		UserID:      in.UserID,
		ArtistID:    in.ArtistID,
		Role:        in.Role,
		DisplayName: in.DisplayName,
		AvatarURL:   in.AvatarURL,
		Instrument:  in.Instrument,
		Permissions: in.Permissions,
	}

	if err := s.memberships.CreateMembership(ctx, m); err != nil {
		s.logger.Error("failed to create membership",
			slog.String("user_id", in.UserID),
			slog.String("artist_id", in.ArtistID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating membership: %w", err)
	}

	s.logger.Info("membership created",
		slog.String("id", m.ID),
		slog.String("user_id", m.UserID),
		slog.String("artist_id", m.ArtistID),
		slog.String("role", m.Role),
	)

	return s.resolve(ctx, m), nil
}

func (s *MembershipService) GetByID(ctx context.Context, id string) (*MembershipView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "membership ID is required")
	}

	m, err := s.memberships.GetMembershipByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.resolve(ctx, m), nil
}

// ListByUser returns a user's memberships, each with its resolved profile.
func (s *MembershipService) ListByUser(ctx context.Context, userID string) ([]MembershipView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("user_id", "user ID is required")
	}

	ms, err := s.memberships.ListMembershipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships for user %s: %w", userID, err)
	}

	return s.resolveAll(ctx, ms), nil
}

// ListByArtist returns a band's roster, each entry with its resolved
// profile.
func (s *MembershipService) ListByArtist(ctx context.Context, artistID string) ([]MembershipView, error) {
	artistID = strings.TrimSpace(artistID)
	if artistID == "" {
		return nil, apperror.ValidationFailed("artist_id", "artist ID is required")
	}

	ms, err := s.memberships.ListMembershipsByArtist(ctx, artistID)
	if err != nil {
		return nil, fmt.Errorf("listing memberships for artist %s: %w", artistID, err)
	}

	return s.resolveAll(ctx, ms), nil
}

func (s *MembershipService) Update(ctx context.Context, id string, patch MembershipPatch) (*MembershipView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "membership ID is required")
	}

	m, err := s.memberships.GetMembershipByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		if !model.ValidEnumValue(*patch.Role, model.MembershipRoles) {
			return nil, apperror.InvalidEnum("role", *patch.Role, model.MembershipRoles)
		}
		m.Role = *patch.Role
	}
	if patch.DisplayName != nil {
		m.DisplayName = clearIfEmpty(patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		m.AvatarURL = clearIfEmpty(patch.AvatarURL)
	}
	if patch.Instrument != nil {
		m.Instrument = clearIfEmpty(patch.Instrument)
	}
	if patch.Permissions != nil {
		m.Permissions = *patch.Permissions
	}

	if err := s.memberships.UpdateMembership(ctx, m); err != nil {
		s.logger.Error("failed to update membership",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating membership: %w", err)
	}

	return s.resolve(ctx, m), nil
}

func (s *MembershipService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "membership ID is required")
	}

	if err := s.memberships.DeleteMembership(ctx, id); err != nil {
		return err
	}

	s.logger.Info("membership deleted", slog.String("id", id))
	return nil
}

// resolve looks up the owning user and merges profiles. A missing user
// (best-effort referential integrity) still yields a view; the overrides
// and username fallback just have less to work with.
func (s *MembershipService) resolve(ctx context.Context, m *model.Membership) *MembershipView {
	user, err := s.users.GetUserByID(ctx, m.UserID)
	if err != nil {
		user = nil
	}

	return &MembershipView{
		Membership: *m,
		Profile:    model.ResolveProfile(m, user),
	}
}

// clearIfEmpty normalises an empty-string override to nil so stored
// overrides are either meaningful values or absent.
func clearIfEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

func (s *MembershipService) resolveAll(ctx context.Context, ms []model.Membership) []MembershipView {
	views := make([]MembershipView, 0, len(ms))
	for i := range ms {
		views = append(views, *s.resolve(ctx, &ms[i]))
	}
	return views
}
