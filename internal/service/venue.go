// Package service contains the business logic layer: validation, field
// defaults, partial-merge updates, and the orchestration of multi-record
// writes. Services accept plain inputs and return domain errors; they
// know nothing about HTTP.
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

// VenueInput is a create request. Only Name is required.
type VenueInput struct {
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Capacity int     `json:"capacity"`
	Website  string  `json:"website"`
}

// VenuePatch is a partial update: nil fields keep their stored value.
type VenuePatch struct {
	Name     *string  `json:"name"`
	Address  *string  `json:"address"`
	City     *string  `json:"city"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Capacity *int     `json:"capacity"`
	Website  *string  `json:"website"`
}

type VenueService struct {
	repo   repository.VenueRepository
	logger *slog.Logger
}

func NewVenueService(repo repository.VenueRepository, logger *slog.Logger) *VenueService {
	return &VenueService{repo: repo, logger: logger}
}

func (s *VenueService) Create(ctx context.Context, in VenueInput) (*model.Venue, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "venue name is required")
	}

	venue := &model.Venue{
		Name:     in.Name,
		Address:  strings.TrimSpace(in.Address),
		City:     strings.TrimSpace(in.City),
		Lat:      in.Lat,
		Lng:      in.Lng,
		Capacity: in.Capacity,
		Website:  strings.TrimSpace(in.Website),
	}

	if err := s.repo.CreateVenue(ctx, venue); err != nil {
		s.logger.Error("failed to create venue",
			slog.String("name", in.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating venue: %w", err)
	}

	s.logger.Info("venue created",
		slog.String("id", venue.ID),
		slog.String("name", venue.Name),
	)

	return venue, nil
}

func (s *VenueService) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "venue ID is required")
	}
	return s.repo.GetVenueByID(ctx, id)
}

func (s *VenueService) List(ctx context.Context, limit int) ([]model.Venue, error) {
	venues, err := s.repo.ListVenues(ctx, repository.ListOptions{Limit: limit})
	if err != nil {
		s.logger.Error("failed to list venues", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing venues: %w", err)
	}
	return venues, nil
}

// Update merges only the fields present in the patch into the stored
// record. Fetch-then-update: the NotFound for an unknown id comes out of
// the initial read, and updated_at always advances on the write.
func (s *VenueService) Update(ctx context.Context, id string, patch VenuePatch) (*model.Venue, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "venue ID is required")
	}

	venue, err := s.repo.GetVenueByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "venue name cannot be empty")
		}
		venue.Name = name
	}
	if patch.Address != nil {
		venue.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.City != nil {
		venue.City = strings.TrimSpace(*patch.City)
	}
	if patch.Lat != nil {
		venue.Lat = *patch.Lat
	}
	if patch.Lng != nil {
		venue.Lng = *patch.Lng
	}
	if patch.Capacity != nil {
		venue.Capacity = *patch.Capacity
	}
	if patch.Website != nil {
		venue.Website = strings.TrimSpace(*patch.Website)
	}

	if err := s.repo.UpdateVenue(ctx, venue); err != nil {
		s.logger.Error("failed to update venue",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating venue: %w", err)
	}

	return venue, nil
}

func (s *VenueService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "venue ID is required")
	}

	if err := s.repo.DeleteVenue(ctx, id); err != nil {
		return err
	}

	s.logger.Info("venue deleted", slog.String("id", id))
	return nil
}
