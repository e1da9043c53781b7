package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

// Compile-time check that *DB implements repository.VenueRepository.
var _ repository.VenueRepository = (*DB)(nil)

func (db *DB) CreateVenue(ctx context.Context, venue *model.Venue) error {
	venue.ID = xid.New().String()

	now := time.Now().UTC()
	venue.CreatedAt = now
	venue.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO venues (id, name, address, city, lat, lng, capacity, website, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		venue.ID,
		venue.Name,
		venue.Address,
		venue.City,
		venue.Lat,
		venue.Lng,
		venue.Capacity,
		venue.Website,
		venue.CreatedAt,
		venue.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating venue: %w", err)
	}

	return nil
}

func (db *DB) GetVenueByID(ctx context.Context, id string) (*model.Venue, error) {
	var v model.Venue

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, address, city, lat, lng, capacity, website, created_at, updated_at
		 FROM venues WHERE id = ?`,
		id,
	).Scan(
		&v.ID, &v.Name, &v.Address, &v.City, &v.Lat, &v.Lng,
		&v.Capacity, &v.Website, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("venue", id)
		}
		return nil, fmt.Errorf("sqlite: getting venue %s: %w", id, err)
	}

	return &v, nil
}

// ListVenues returns venues newest-first, skipping rows without coordinates.
// The imported data set used lat=0,lng=0 as "location unknown", and those
// rows would render on a map at Null Island, so listings exclude them.
func (db *DB) ListVenues(ctx context.Context, opts repository.ListOptions) ([]model.Venue, error) {
	limit := clampLimit(opts.Limit)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, address, city, lat, lng, capacity, website, created_at, updated_at
		 FROM venues
		 WHERE lat != 0 AND lng != 0
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing venues: %w", err)
	}
	defer rows.Close()

	venues := make([]model.Venue, 0, limit)
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(
			&v.ID, &v.Name, &v.Address, &v.City, &v.Lat, &v.Lng,
			&v.Capacity, &v.Website, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning venue row: %w", err)
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating venues: %w", err)
	}

	return venues, nil
}

func (db *DB) UpdateVenue(ctx context.Context, venue *model.Venue) error {
	venue.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE venues
		 SET name = ?, address = ?, city = ?, lat = ?, lng = ?, capacity = ?, website = ?, updated_at = ?
		 WHERE id = ?`,
		venue.Name,
		venue.Address,
		venue.City,
		venue.Lat,
		venue.Lng,
		venue.Capacity,
		venue.Website,
		venue.UpdatedAt,
		venue.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating venue %s: %w", venue.ID, err)
	}

	return checkAffected(result, "venue", venue.ID)
}

func (db *DB) DeleteVenue(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM venues WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting venue %s: %w", id, err)
	}

	return checkAffected(result, "venue", id)
}

// clampLimit applies the default and maximum page sizes.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 200 {
		return 200
	}
	return limit
}

// checkAffected turns a zero-row UPDATE/DELETE into NotFound so handlers
// answer 404 for unknown ids rather than pretending the write happened.
func checkAffected(result sql.Result, resource, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
