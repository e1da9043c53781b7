package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

// newTestDB opens a fresh in-memory database with migrations applied.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestVenue(t *testing.T, db *DB, name string, lat, lng float64) *model.Venue {
	t.Helper()
	venue := &model.Venue{Name: name, City: "Halifax", Lat: lat, Lng: lng}
	if err := db.CreateVenue(context.Background(), venue); err != nil {
		t.Fatalf("failed to create test venue: %v", err)
	}
	return venue
}

func TestCreateVenue(t *testing.T) {
	db := newTestDB(t)

	venue := &model.Venue{
		Name: "The Marquee",
		City: "Halifax",
		Lat:  44.6488,
		Lng:  -63.5752,
	}

	if err := db.CreateVenue(context.Background(), venue); err != nil {
		t.Fatalf("CreateVenue() error = %v", err)
	}
	if venue.ID == "" {
		t.Error("CreateVenue() did not set venue.ID")
	}
	if venue.CreatedAt.IsZero() || venue.UpdatedAt.IsZero() {
		t.Error("CreateVenue() did not set timestamps")
	}

	got, err := db.GetVenueByID(context.Background(), venue.ID)
	if err != nil {
		t.Fatalf("GetVenueByID() error = %v", err)
	}
	if got.Name != venue.Name || got.Lat != venue.Lat || got.Lng != venue.Lng {
		t.Errorf("persisted venue = %+v, want %+v", got, venue)
	}
}

func TestGetVenueByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetVenueByID(context.Background(), "does-not-exist")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetVenueByID() error = %v, want ErrNotFound", err)
	}
}

func TestListVenues_ExcludesZeroCoordinates(t *testing.T) {
	db := newTestDB(t)

	located := createTestVenue(t, db, "Located", 44.65, -63.58)
	createTestVenue(t, db, "No Coords", 0, 0)
	createTestVenue(t, db, "Zero Lat", 0, -63.58)
	createTestVenue(t, db, "Zero Lng", 44.65, 0)

	venues, err := db.ListVenues(context.Background(), repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListVenues() error = %v", err)
	}

	if len(venues) != 1 {
		t.Fatalf("ListVenues() returned %d venues, want 1", len(venues))
	}
	if venues[0].ID != located.ID {
		t.Errorf("ListVenues() returned %q, want %q", venues[0].Name, located.Name)
	}
}

func TestListVenues_Limit(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 5; i++ {
		createTestVenue(t, db, "Venue", 44.65, -63.58)
	}

	venues, err := db.ListVenues(context.Background(), repository.ListOptions{Limit: 3})
	if err != nil {
		t.Fatalf("ListVenues() error = %v", err)
	}
	if len(venues) != 3 {
		t.Errorf("ListVenues(limit=3) returned %d venues", len(venues))
	}
}

func TestUpdateVenue(t *testing.T) {
	db := newTestDB(t)
	venue := createTestVenue(t, db, "Old Name", 44.65, -63.58)

	venue.Name = "New Name"
	venue.Capacity = 400
	if err := db.UpdateVenue(context.Background(), venue); err != nil {
		t.Fatalf("UpdateVenue() error = %v", err)
	}

	got, err := db.GetVenueByID(context.Background(), venue.ID)
	if err != nil {
		t.Fatalf("GetVenueByID() error = %v", err)
	}
	if got.Name != "New Name" || got.Capacity != 400 {
		t.Errorf("venue after update = %+v", got)
	}
}

func TestUpdateVenue_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateVenue(context.Background(), &model.Venue{ID: "ghost", Name: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateVenue() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteVenue(t *testing.T) {
	db := newTestDB(t)
	venue := createTestVenue(t, db, "Doomed", 44.65, -63.58)

	if err := db.DeleteVenue(context.Background(), venue.ID); err != nil {
		t.Fatalf("DeleteVenue() error = %v", err)
	}

	if _, err := db.GetVenueByID(context.Background(), venue.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("venue still readable after delete, err = %v", err)
	}

	// Second delete reports NotFound rather than succeeding silently.
	if err := db.DeleteVenue(context.Background(), venue.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second DeleteVenue() error = %v, want ErrNotFound", err)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 50},
		{-5, 50},
		{10, 10},
		{200, 200},
		{5000, 200},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
