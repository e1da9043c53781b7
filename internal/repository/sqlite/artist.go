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

var _ repository.ArtistRepository = (*DB)(nil)

func (db *DB) CreateArtist(ctx context.Context, artist *model.Artist) error {
	artist.ID = xid.New().String()

	now := time.Now().UTC()
	artist.CreatedAt = now
	artist.UpdatedAt = now

	genres, err := marshalJSON(artist.Genres, "[]")
	if err != nil {
		return fmt.Errorf("sqlite: encoding genres: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO artists (id, name, bio, genres, hometown, owner_user_id, claimed_by_user_id, member_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		artist.ID,
		artist.Name,
		artist.Bio,
		genres,
		artist.Hometown,
		artist.OwnerUserID,
		artist.ClaimedByUserID,
		artist.MemberCount,
		artist.CreatedAt,
		artist.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating artist: %w", err)
	}

	return nil
}

func (db *DB) GetArtistByID(ctx context.Context, id string) (*model.Artist, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, bio, genres, hometown, owner_user_id, claimed_by_user_id, member_count, created_at, updated_at
		 FROM artists WHERE id = ?`,
		id,
	)

	a, err := scanArtist(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("artist", id)
		}
		return nil, fmt.Errorf("sqlite: getting artist %s: %w", id, err)
	}

	return a, nil
}

func (db *DB) ListArtists(ctx context.Context, opts repository.ListOptions) ([]model.Artist, error) {
	limit := clampLimit(opts.Limit)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, bio, genres, hometown, owner_user_id, claimed_by_user_id, member_count, created_at, updated_at
		 FROM artists
		 ORDER BY created_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing artists: %w", err)
	}
	defer rows.Close()

	artists := make([]model.Artist, 0, limit)
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning artist row: %w", err)
		}
		artists = append(artists, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating artists: %w", err)
	}

	return artists, nil
}

func (db *DB) UpdateArtist(ctx context.Context, artist *model.Artist) error {
	artist.UpdatedAt = time.Now().UTC()

	genres, err := marshalJSON(artist.Genres, "[]")
	if err != nil {
		return fmt.Errorf("sqlite: encoding genres: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE artists
		 SET name = ?, bio = ?, genres = ?, hometown = ?, owner_user_id = ?, claimed_by_user_id = ?, updated_at = ?
		 WHERE id = ?`,
		artist.Name,
		artist.Bio,
		genres,
		artist.Hometown,
		artist.OwnerUserID,
		artist.ClaimedByUserID,
		artist.UpdatedAt,
		artist.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating artist %s: %w", artist.ID, err)
	}

	return checkAffected(result, "artist", artist.ID)
}

// DeleteArtist removes the artist row only. Memberships pointing at it
// stay behind and resolve best-effort at read time.
func (db *DB) DeleteArtist(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM artists WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting artist %s: %w", id, err)
	}

	return checkAffected(result, "artist", id)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArtist(s scanner) (*model.Artist, error) {
	var a model.Artist
	var genres string

	err := s.Scan(
		&a.ID, &a.Name, &a.Bio, &genres, &a.Hometown,
		&a.OwnerUserID, &a.ClaimedByUserID, &a.MemberCount,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Genres = unmarshalStrings(genres)
	return &a, nil
}
