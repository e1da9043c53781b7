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

var _ repository.SongRepository = (*DB)(nil)

const songColumns = `id, title, artist, album, duration_secs, links, tags, created_at, updated_at`

func (db *DB) CreateSong(ctx context.Context, song *model.Song) error {
	song.ID = xid.New().String()

	now := time.Now().UTC()
	song.CreatedAt = now
	song.UpdatedAt = now

	links, err := marshalJSON(song.Links, "{}")
	if err != nil {
		return fmt.Errorf("sqlite: encoding links: %w", err)
	}
	tags, err := marshalJSON(song.Tags, "[]")
	if err != nil {
		return fmt.Errorf("sqlite: encoding tags: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO songs (`+songColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		song.ID,
		song.Title,
		song.Artist,
		song.Album,
		song.DurationSecs,
		links,
		tags,
		song.CreatedAt,
		song.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating song: %w", err)
	}

	return nil
}

func (db *DB) GetSongByID(ctx context.Context, id string) (*model.Song, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE id = ?`, id,
	)

	s, err := scanSong(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("song", id)
		}
		return nil, fmt.Errorf("sqlite: getting song %s: %w", id, err)
	}

	return s, nil
}

// ListSongs returns songs newest-first. A tag filter matches songs whose
// tags array contains the value; tags are stored as a JSON array so the
// match goes through json_each.
func (db *DB) ListSongs(ctx context.Context, filter repository.SongFilter) ([]model.Song, error) {
	limit := clampLimit(filter.Limit)

	query := `SELECT ` + songColumns + ` FROM songs`
	args := []any{}
	if filter.Tag != "" {
		query += ` WHERE EXISTS (SELECT 1 FROM json_each(songs.tags) WHERE json_each.value = ?)`
		args = append(args, filter.Tag)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing songs: %w", err)
	}
	defer rows.Close()

	songs := make([]model.Song, 0, limit)
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning song row: %w", err)
		}
		songs = append(songs, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating songs: %w", err)
	}

	return songs, nil
}

func (db *DB) UpdateSong(ctx context.Context, song *model.Song) error {
	song.UpdatedAt = time.Now().UTC()

	links, err := marshalJSON(song.Links, "{}")
	if err != nil {
		return fmt.Errorf("sqlite: encoding links: %w", err)
	}
	tags, err := marshalJSON(song.Tags, "[]")
	if err != nil {
		return fmt.Errorf("sqlite: encoding tags: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE songs
		 SET title = ?, artist = ?, album = ?, duration_secs = ?, links = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		song.Title,
		song.Artist,
		song.Album,
		song.DurationSecs,
		links,
		tags,
		song.UpdatedAt,
		song.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating song %s: %w", song.ID, err)
	}

	return checkAffected(result, "song", song.ID)
}

func (db *DB) DeleteSong(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM songs WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting song %s: %w", id, err)
	}

	return checkAffected(result, "song", id)
}

func scanSong(s scanner) (*model.Song, error) {
	var song model.Song
	var links, tags string

	err := s.Scan(
		&song.ID, &song.Title, &song.Artist, &song.Album, &song.DurationSecs,
		&links, &tags, &song.CreatedAt, &song.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	song.Links = unmarshalStringMap(links)
	song.Tags = unmarshalStrings(tags)
	return &song, nil
}
