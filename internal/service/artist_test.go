package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

type mockArtistRepo struct {
	artists map[string]*model.Artist
	nextID  int
}

func newMockArtistRepo() *mockArtistRepo {
	return &mockArtistRepo{artists: make(map[string]*model.Artist)}
}

func (m *mockArtistRepo) CreateArtist(_ context.Context, artist *model.Artist) error {
	m.nextID++
	artist.ID = fmt.Sprintf("artist-%d", m.nextID)
	stored := *artist
	m.artists[artist.ID] = &stored
	return nil
}

func (m *mockArtistRepo) GetArtistByID(_ context.Context, id string) (*model.Artist, error) {
	artist, ok := m.artists[id]
	if !ok {
		return nil, apperror.NotFound("artist", id)
	}
	result := *artist
	return &result, nil
}

func (m *mockArtistRepo) ListArtists(_ context.Context, _ repository.ListOptions) ([]model.Artist, error) {
	result := []model.Artist{}
	for _, a := range m.artists {
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockArtistRepo) UpdateArtist(_ context.Context, artist *model.Artist) error {
	if _, ok := m.artists[artist.ID]; !ok {
		return apperror.NotFound("artist", artist.ID)
	}
	stored := *artist
	m.artists[artist.ID] = &stored
	return nil
}

func (m *mockArtistRepo) DeleteArtist(_ context.Context, id string) error {
	if _, ok := m.artists[id]; !ok {
		return apperror.NotFound("artist", id)
	}
	delete(m.artists, id)
	return nil
}

func TestArtistCreate_CreatesOwnerMembership(t *testing.T) {
	artists := newMockArtistRepo()
	memberships := newMockMembershipRepo()
	svc := NewArtistService(artists, memberships, testLogger())

	artist, err := svc.Create(context.Background(), "user-1", ArtistInput{
		Name:   "The Band",
		Genres: []string{"rock"},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if artist.OwnerUserID != "user-1" {
		t.Errorf("OwnerUserID = %q", artist.OwnerUserID)
	}
	if artist.MemberCount != 1 {
		t.Errorf("MemberCount = %d, want 1", artist.MemberCount)
	}

	ms, err := memberships.ListMembershipsByArtist(context.Background(), artist.ID)
	if err != nil {
		t.Fatalf("ListMembershipsByArtist() error = %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("got %d memberships, want 1", len(ms))
	}
	if ms[0].UserID != "user-1" || ms[0].Role != "owner" {
		t.Errorf("owner membership = %+v", ms[0])
	}
	if len(ms[0].Permissions) == 0 {
		t.Error("owner membership should carry management permissions")
	}
}

func TestArtistCreate_CompensatesOnMembershipFailure(t *testing.T) {
	artists := newMockArtistRepo()
	memberships := newMockMembershipRepo()
	memberships.failCreate = errors.New("simulated store failure")
	svc := NewArtistService(artists, memberships, testLogger())

	_, err := svc.Create(context.Background(), "user-1", ArtistInput{Name: "The Band"})
	if err == nil {
		t.Fatal("Create() should fail when the owner membership write fails")
	}

	// The half-created artist must have been deleted again.
	if len(artists.artists) != 0 {
		t.Errorf("artist left behind after failed create: %v", artists.artists)
	}
}

func TestArtistCreate_RequiresNameAndOwner(t *testing.T) {
	svc := NewArtistService(newMockArtistRepo(), newMockMembershipRepo(), testLogger())

	if _, err := svc.Create(context.Background(), "user-1", ArtistInput{Name: "  "}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create(empty name) error = %v, want ErrValidation", err)
	}
	if _, err := svc.Create(context.Background(), "", ArtistInput{Name: "x"}); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create(no owner) error = %v, want ErrValidation", err)
	}
}

func TestArtistUpdate_LegacyClaimFieldIndependent(t *testing.T) {
	artists := newMockArtistRepo()
	memberships := newMockMembershipRepo()
	svc := NewArtistService(artists, memberships, testLogger())

	artist, err := svc.Create(context.Background(), "user-1", ArtistInput{Name: "The Band"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	claim := "user-9"
	updated, err := svc.Update(context.Background(), artist.ID, ArtistPatch{ClaimedByUserID: &claim})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.ClaimedByUserID != "user-9" {
		t.Errorf("ClaimedByUserID = %q", updated.ClaimedByUserID)
	}
	if updated.OwnerUserID != "user-1" {
		t.Errorf("OwnerUserID = %q, claim updates must not touch ownership", updated.OwnerUserID)
	}
}
