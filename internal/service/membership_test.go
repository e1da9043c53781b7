package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
)

type mockMembershipRepo struct {
	memberships map[string]*model.Membership
	nextID      int

	// failCreate, when set, makes CreateMembership fail with this error.
	failCreate error
}

func newMockMembershipRepo() *mockMembershipRepo {
	return &mockMembershipRepo{memberships: make(map[string]*model.Membership)}
}

func (m *mockMembershipRepo) CreateMembership(_ context.Context, ms *model.Membership) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.nextID++
	ms.ID = fmt.Sprintf("membership-%d", m.nextID)
	stored := *ms
	m.memberships[ms.ID] = &stored
	return nil
}

func (m *mockMembershipRepo) GetMembershipByID(_ context.Context, id string) (*model.Membership, error) {
	ms, ok := m.memberships[id]
	if !ok {
		return nil, apperror.NotFound("membership", id)
	}
	result := *ms
	return &result, nil
}

func (m *mockMembershipRepo) ListMembershipsByUser(_ context.Context, userID string) ([]model.Membership, error) {
	result := []model.Membership{}
	for _, ms := range m.memberships {
		if ms.UserID == userID {
			result = append(result, *ms)
		}
	}
	return result, nil
}

func (m *mockMembershipRepo) ListMembershipsByArtist(_ context.Context, artistID string) ([]model.Membership, error) {
	result := []model.Membership{}
	for _, ms := range m.memberships {
		if ms.ArtistID == artistID {
			result = append(result, *ms)
		}
	}
	return result, nil
}

func (m *mockMembershipRepo) UpdateMembership(_ context.Context, ms *model.Membership) error {
	if _, ok := m.memberships[ms.ID]; !ok {
		return apperror.NotFound("membership", ms.ID)
	}
	stored := *ms
	m.memberships[ms.ID] = &stored
	return nil
}

func (m *mockMembershipRepo) DeleteMembership(_ context.Context, id string) error {
	if _, ok := m.memberships[id]; !ok {
		return apperror.NotFound("membership", id)
	}
	delete(m.memberships, id)
	return nil
}

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) UpsertUser(_ context.Context, user *model.User) error {
	stored := *user
	m.users[user.CognitoID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.CognitoID]; !ok {
		return apperror.NotFound("user", user.CognitoID)
	}
	stored := *user
	m.users[user.CognitoID] = &stored
	return nil
}

func newTestMembershipService() (*MembershipService, *mockMembershipRepo, *mockUserRepo) {
	memberships := newMockMembershipRepo()
	users := newMockUserRepo()
	return NewMembershipService(memberships, users, testLogger()), memberships, users
}

func strptr(s string) *string { return &s }

func TestMembershipCreate_DefaultRole(t *testing.T) {
	svc, _, _ := newTestMembershipService()

	view, err := svc.Create(context.Background(), MembershipInput{
		UserID:   "user-1",
		ArtistID: "artist-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if view.Role != "member" {
		t.Errorf("Role = %q, want default member", view.Role)
	}
}

func TestMembershipCreate_RejectsUnknownRole(t *testing.T) {
	svc, _, _ := newTestMembershipService()

	_, err := svc.Create(context.Background(), MembershipInput{
		UserID:   "user-1",
		ArtistID: "artist-1",
		Role:     "roadie",
	})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatal("error should be an *AppError")
	}
	if len(appErr.Allowed) != len(model.MembershipRoles) {
		t.Errorf("Allowed = %v, want %v", appErr.Allowed, model.MembershipRoles)
	}
}

func TestMembershipProfile_OverridesWin(t *testing.T) {
	svc, _, users := newTestMembershipService()
	ctx := context.Background()

	users.UpsertUser(ctx, &model.User{
		CognitoID:   "user-1",
		Username:    "alice",
		DisplayName: "Alice A.",
		AvatarURL:   "https://pics.example.com/alice.png",
		Instrument:  "guitar",
	})

	view, err := svc.Create(ctx, MembershipInput{
		UserID:      "user-1",
		ArtistID:    "artist-1",
		DisplayName: strptr("Shredder"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	p := view.Profile
	if p.DisplayName != "Shredder" || !p.HasCustomDisplayName {
		t.Errorf("DisplayName = %q (custom=%v), want override Shredder", p.DisplayName, p.HasCustomDisplayName)
	}
	if p.AvatarURL != "https://pics.example.com/alice.png" || p.HasCustomAvatar {
		t.Errorf("AvatarURL = %q (custom=%v), want inherited", p.AvatarURL, p.HasCustomAvatar)
	}
	if p.Instrument != "guitar" || p.HasCustomInstrument {
		t.Errorf("Instrument = %q (custom=%v), want inherited", p.Instrument, p.HasCustomInstrument)
	}
}

func TestMembershipProfile_UsernameFallback(t *testing.T) {
	svc, _, users := newTestMembershipService()
	ctx := context.Background()

	// User with no display name at all.
	users.UpsertUser(ctx, &model.User{CognitoID: "user-2", Username: "bob"})

	view, err := svc.Create(ctx, MembershipInput{UserID: "user-2", ArtistID: "artist-1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if view.Profile.DisplayName != "bob" {
		t.Errorf("DisplayName = %q, want username fallback bob", view.Profile.DisplayName)
	}
	if view.Profile.HasCustomDisplayName {
		t.Error("fallback display name must not be flagged as custom")
	}
}

func TestMembershipProfile_MissingUser(t *testing.T) {
	svc, _, _ := newTestMembershipService()

	// No user row exists; the view still resolves.
	view, err := svc.Create(context.Background(), MembershipInput{
		UserID:     "ghost",
		ArtistID:   "artist-1",
		Instrument: strptr("bass"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if view.Profile.Instrument != "bass" || !view.Profile.HasCustomInstrument {
		t.Errorf("Profile = %+v, override should survive a missing user", view.Profile)
	}
	if view.Profile.DisplayName != "" {
		t.Errorf("DisplayName = %q, want empty with no user row", view.Profile.DisplayName)
	}
}

func TestMembershipUpdate_EmptyStringClearsOverride(t *testing.T) {
	svc, memberships, users := newTestMembershipService()
	ctx := context.Background()

	users.UpsertUser(ctx, &model.User{
		CognitoID:   "user-1",
		Username:    "alice",
		DisplayName: "Alice A.",
	})

	view, err := svc.Create(ctx, MembershipInput{
		UserID:      "user-1",
		ArtistID:    "artist-1",
		DisplayName: strptr("Shredder"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, view.ID, MembershipPatch{DisplayName: strptr("")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Profile.DisplayName != "Alice A." || updated.Profile.HasCustomDisplayName {
		t.Errorf("Profile = %+v, cleared override should inherit again", updated.Profile)
	}

	// The stored override is gone, not an empty string.
	stored, _ := memberships.GetMembershipByID(ctx, view.ID)
	if stored.DisplayName != nil {
		t.Errorf("stored DisplayName = %v, want nil", stored.DisplayName)
	}
}

func TestMembershipUpdate_AbsentFieldLeavesOverride(t *testing.T) {
	svc, _, _ := newTestMembershipService()
	ctx := context.Background()

	view, err := svc.Create(ctx, MembershipInput{
		UserID:      "user-1",
		ArtistID:    "artist-1",
		DisplayName: strptr("Shredder"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, view.ID, MembershipPatch{Role: strptr("admin")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Role != "admin" {
		t.Errorf("Role = %q", updated.Role)
	}
	if updated.DisplayName == nil || *updated.DisplayName != "Shredder" {
		t.Errorf("DisplayName = %v, untouched override should survive", updated.DisplayName)
	}
}
