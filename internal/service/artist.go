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

type ArtistInput struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Genres   []string `json:"genres"`
	Hometown string   `json:"hometown"`
}

type ArtistPatch struct {
	Name            *string   `json:"name"`
	Bio             *string   `json:"bio"`
	Genres          *[]string `json:"genres"`
	Hometown        *string   `json:"hometown"`
	ClaimedByUserID *string   `json:"claimedByUserId"`
}

type ArtistService struct {
	artists     repository.ArtistRepository
	memberships repository.MembershipRepository
	logger      *slog.Logger
}

func NewArtistService(
	artists repository.ArtistRepository,
	memberships repository.MembershipRepository,
	logger *slog.Logger,
) *ArtistService {
	return &ArtistService{
		artists:     artists,
		memberships: memberships,
		logger:      logger,
	}
}

// Create inserts the artist and an owner membership for the creating
// user as an explicit two-phase operation. The two writes are separate
// commits, so if the membership write fails the artist is deleted again
// (compensation) rather than left behind with no owning membership.
func (s *ArtistService) Create(ctx context.Context, ownerUserID string, in ArtistInput) (*model.Artist, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "artist name is required")
	}
	if ownerUserID == "" {
		return nil, apperror.ValidationFailed("owner_user_id", "owner user ID is required")
	}

	artist := &model.Artist{
		Name:        in.Name,
		Bio:         strings.TrimSpace(in.Bio),
		Genres:      in.Genres,
		Hometown:    strings.TrimSpace(in.Hometown),
		OwnerUserID: ownerUserID,
	}

	if err := s.artists.CreateArtist(ctx, artist); err != nil {
		s.logger.Error("failed to create artist",
			slog.String("name", in.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating artist: %w", err)
	}

	owner := &model.Membership{
		UserID:      ownerUserID,
		ArtistID:    artist.ID,
		Role:        "owner",
		Permissions: []string{"manage_members", "manage_profile", "manage_issues"},
	}

	if err := s.memberships.CreateMembership(ctx, owner); err != nil {
		s.logger.Error("owner membership write failed, compensating",
			slog.String("artist_id", artist.ID),
			slog.String("error", err.Error()),
		)
		if delErr := s.artists.DeleteArtist(ctx, artist.ID); delErr != nil {
			// Compensation itself failed: the orphaned artist is now
			// observable. Log loudly; there is no retry loop here.
			s.logger.Error("compensating artist delete failed",
				slog.String("artist_id", artist.ID),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("creating owner membership: %w", err)
	}

	// CreateMembership bumped the stored counter; reflect it in the
	// value returned to the client without a re-read.
	artist.MemberCount = 1

	s.logger.Info("artist created",
		slog.String("id", artist.ID),
		slog.String("name", artist.Name),
		slog.String("owner", ownerUserID),
	)

	return artist, nil
}

func (s *ArtistService) GetByID(ctx context.Context, id string) (*model.Artist, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "artist ID is required")
	}
	return s.artists.GetArtistByID(ctx, id)
}

func (s *ArtistService) List(ctx context.Context, limit int) ([]model.Artist, error) {
	artists, err := s.artists.ListArtists(ctx, repository.ListOptions{Limit: limit})
	if err != nil {
		s.logger.Error("failed to list artists", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing artists: %w", err)
	}
	return artists, nil
}

func (s *ArtistService) Update(ctx context.Context, id string, patch ArtistPatch) (*model.Artist, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "artist ID is required")
	}

	artist, err := s.artists.GetArtistByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "artist name cannot be empty")
		}
		artist.Name = name
	}
	if patch.Bio != nil {
		artist.Bio = strings.TrimSpace(*patch.Bio)
	}
	if patch.Genres != nil {
		artist.Genres = *patch.Genres
	}
	if patch.Hometown != nil {
		artist.Hometown = strings.TrimSpace(*patch.Hometown)
	}
	if patch.ClaimedByUserID != nil {
		// Legacy field: stored verbatim, never derived from OwnerUserID.
		artist.ClaimedByUserID = *patch.ClaimedByUserID
	}

	if err := s.artists.UpdateArtist(ctx, artist); err != nil {
		s.logger.Error("failed to update artist",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating artist: %w", err)
	}

	return artist, nil
}

// Delete removes the artist only. Its memberships stay behind (no
// cascade); they resolve best-effort at read time.
func (s *ArtistService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "artist ID is required")
	}

	if err := s.artists.DeleteArtist(ctx, id); err != nil {
		return err
	}

	s.logger.Info("artist deleted", slog.String("id", id))
	return nil
}
