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

type SongInput struct {
	Title        string            `json:"title"`
	Artist       string            `json:"artist"`
	Album        string            `json:"album"`
	DurationSecs int               `json:"duration_secs"`
	Links        map[string]string `json:"links"`
	Tags         []string          `json:"tags"`
}

type SongPatch struct {
	Title        *string            `json:"title"`
	Artist       *string            `json:"artist"`
	Album        *string            `json:"album"`
	DurationSecs *int               `json:"duration_secs"`
	Links        *map[string]string `json:"links"`
	Tags         *[]string          `json:"tags"`
}

type SongService struct {
	repo   repository.SongRepository
	logger *slog.Logger
}

func NewSongService(repo repository.SongRepository, logger *slog.Logger) *SongService {
	return &SongService{repo: repo, logger: logger}
}

func (s *SongService) Create(ctx context.Context, in SongInput) (*model.Song, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "song title is required")
	}

	song := &model.Song{
		Title:        in.Title,
		Artist:       strings.TrimSpace(in.Artist),
		Album:        strings.TrimSpace(in.Album),
		DurationSecs: in.DurationSecs,
		Links:        in.Links,
		Tags:         in.Tags,
	}

	if err := s.repo.CreateSong(ctx, song); err != nil {
		s.logger.Error("failed to create song",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating song: %w", err)
	}

	s.logger.Info("song created",
		slog.String("id", song.ID),
		slog.String("title", song.Title),
	)

	return song, nil
}

func (s *SongService) GetByID(ctx context.Context, id string) (*model.Song, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "song ID is required")
	}
	return s.repo.GetSongByID(ctx, id)
}

func (s *SongService) List(ctx context.Context, tag string, limit int) ([]model.Song, error) {
	songs, err := s.repo.ListSongs(ctx, repository.SongFilter{
		Tag:   strings.TrimSpace(tag),
		Limit: limit,
	})
	if err != nil {
		s.logger.Error("failed to list songs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing songs: %w", err)
	}
	return songs, nil
}

func (s *SongService) Update(ctx context.Context, id string, patch SongPatch) (*model.Song, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "song ID is required")
	}

	song, err := s.repo.GetSongByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "song title cannot be empty")
		}
		song.Title = title
	}
	if patch.Artist != nil {
		song.Artist = strings.TrimSpace(*patch.Artist)
	}
	if patch.Album != nil {
		song.Album = strings.TrimSpace(*patch.Album)
	}
	if patch.DurationSecs != nil {
		song.DurationSecs = *patch.DurationSecs
	}
	if patch.Links != nil {
		song.Links = *patch.Links
	}
	if patch.Tags != nil {
		song.Tags = *patch.Tags
	}

	if err := s.repo.UpdateSong(ctx, song); err != nil {
		s.logger.Error("failed to update song",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating song: %w", err)
	}

	return song, nil
}

func (s *SongService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "song ID is required")
	}

	if err := s.repo.DeleteSong(ctx, id); err != nil {
		return err
	}

	s.logger.Info("song deleted", slog.String("id", id))
	return nil
}
