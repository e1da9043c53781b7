// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage is the production implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/bandhub/backstage/internal/model"
)

// ListOptions caps plain listings. Zero Limit means the default page size.
type ListOptions struct {
	Limit int
}

// SongFilter selects songs by equality predicates.
type SongFilter struct {
	Tag   string
	Limit int
}

// IssueFilter selects issues by equality predicates on the enum fields.
type IssueFilter struct {
	Status   string
	Priority string
	Type     string
	Limit    int
}

type VenueRepository interface {
	CreateVenue(ctx context.Context, venue *model.Venue) error
	GetVenueByID(ctx context.Context, id string) (*model.Venue, error)
	// ListVenues returns venues with usable coordinates; rows with zero
	// lat or lng are excluded.
	ListVenues(ctx context.Context, opts ListOptions) ([]model.Venue, error)
	UpdateVenue(ctx context.Context, venue *model.Venue) error
	DeleteVenue(ctx context.Context, id string) error
}

type ArtistRepository interface {
	CreateArtist(ctx context.Context, artist *model.Artist) error
	GetArtistByID(ctx context.Context, id string) (*model.Artist, error)
	ListArtists(ctx context.Context, opts ListOptions) ([]model.Artist, error)
	UpdateArtist(ctx context.Context, artist *model.Artist) error
	// DeleteArtist removes the artist only. Memberships referencing it are
	// not cascaded; they resolve best-effort at read time.
	DeleteArtist(ctx context.Context, id string) error
}

type SongRepository interface {
	CreateSong(ctx context.Context, song *model.Song) error
	GetSongByID(ctx context.Context, id string) (*model.Song, error)
	ListSongs(ctx context.Context, filter SongFilter) ([]model.Song, error)
	UpdateSong(ctx context.Context, song *model.Song) error
	DeleteSong(ctx context.Context, id string) error
}

type IssueRepository interface {
	CreateIssue(ctx context.Context, issue *model.Issue) error
	GetIssueByID(ctx context.Context, id string) (*model.Issue, error)
	ListIssues(ctx context.Context, filter IssueFilter) ([]model.Issue, error)
	UpdateIssue(ctx context.Context, issue *model.Issue) error
	DeleteIssue(ctx context.Context, id string) error
}

type UserRepository interface {
	// Upsert inserts the user on first login. For an existing row only
	// empty profile fields are filled from the incoming record — explicit
	// user edits always win over re-imported provider claims.
	UpsertUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, cognitoID string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
}

type MembershipRepository interface {
	// CreateMembership inserts the membership and increments the owning
	// artist's member_count in the same transaction.
	CreateMembership(ctx context.Context, m *model.Membership) error
	GetMembershipByID(ctx context.Context, id string) (*model.Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]model.Membership, error)
	ListMembershipsByArtist(ctx context.Context, artistID string) ([]model.Membership, error)
	UpdateMembership(ctx context.Context, m *model.Membership) error
	// DeleteMembership removes the membership and decrements the owning
	// artist's member_count in the same transaction.
	DeleteMembership(ctx context.Context, id string) error
}

// OAuthStateRepository is the shared, expiring store for pending OAuth
// state tokens. It must be backed by the database, not process memory:
// the authorize and callback requests are not guaranteed to hit the same
// process.
type OAuthStateRepository interface {
	PutState(ctx context.Context, state string, expiresAt time.Time) error
	// ConsumeState deletes the state and reports whether it existed and
	// had not expired. A state can be consumed at most once.
	ConsumeState(ctx context.Context, state string, now time.Time) (bool, error)
	// PurgeExpiredStates removes rows past their expiry.
	PurgeExpiredStates(ctx context.Context, now time.Time) error
}
