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

var _ repository.MembershipRepository = (*DB)(nil)

const membershipColumns = `id, user_id, artist_id, role, display_name, avatar_url, instrument, permissions, created_at, updated_at`

// CreateMembership inserts the membership and bumps the owning artist's
// member_count inside one transaction, so the counter cannot drift from
// the membership rows under partial failure.
func (db *DB) CreateMembership(ctx context.Context, m *model.Membership) error {
	m.ID = xid.New().String()

	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	permissions, err := marshalJSON(m.Permissions, "[]")
	if err != nil {
		return fmt.Errorf("sqlite: encoding permissions: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO memberships (`+membershipColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.UserID,
		m.ArtistID,
		m.Role,
		m.DisplayName,
		m.AvatarURL,
		m.Instrument,
		permissions,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating membership: %w", err)
	}

	// The artist may have been deleted out from under us; that is fine.
	// Memberships are best-effort references, so a missing artist row just
	// means there is no counter to bump.
	_, err = tx.ExecContext(ctx,
		`UPDATE artists SET member_count = member_count + 1 WHERE id = ?`,
		m.ArtistID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: incrementing member_count for artist %s: %w", m.ArtistID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing membership create: %w", err)
	}

	return nil
}

func (db *DB) GetMembershipByID(ctx context.Context, id string) (*model.Membership, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE id = ?`, id,
	)

	m, err := scanMembership(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("membership", id)
		}
		return nil, fmt.Errorf("sqlite: getting membership %s: %w", id, err)
	}

	return m, nil
}

func (db *DB) ListMembershipsByUser(ctx context.Context, userID string) ([]model.Membership, error) {
	return db.listMemberships(ctx, "user_id", userID)
}

func (db *DB) ListMembershipsByArtist(ctx context.Context, artistID string) ([]model.Membership, error) {
	return db.listMemberships(ctx, "artist_id", artistID)
}

func (db *DB) listMemberships(ctx context.Context, column, value string) ([]model.Membership, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE `+column+` = ? ORDER BY created_at ASC`,
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing memberships by %s: %w", column, err)
	}
	defer rows.Close()

	var memberships []model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning membership row: %w", err)
		}
		memberships = append(memberships, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating memberships: %w", err)
	}

	if memberships == nil {
		memberships = []model.Membership{}
	}
	return memberships, nil
}

func (db *DB) UpdateMembership(ctx context.Context, m *model.Membership) error {
	m.UpdatedAt = time.Now().UTC()

	permissions, err := marshalJSON(m.Permissions, "[]")
	if err != nil {
		return fmt.Errorf("sqlite: encoding permissions: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE memberships
		 SET role = ?, display_name = ?, avatar_url = ?, instrument = ?, permissions = ?, updated_at = ?
		 WHERE id = ?`,
		m.Role,
		m.DisplayName,
		m.AvatarURL,
		m.Instrument,
		permissions,
		m.UpdatedAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating membership %s: %w", m.ID, err)
	}

	return checkAffected(result, "membership", m.ID)
}

// DeleteMembership removes the membership and decrements the owning
// artist's member_count in the same transaction. The counter never goes
// below zero even if it was already inconsistent from imported data.
func (db *DB) DeleteMembership(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var artistID string
	err = tx.QueryRowContext(ctx,
		`SELECT artist_id FROM memberships WHERE id = ?`, id,
	).Scan(&artistID)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperror.NotFound("membership", id)
		}
		return fmt.Errorf("sqlite: looking up membership %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM memberships WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("sqlite: deleting membership %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE artists SET member_count = MAX(member_count - 1, 0) WHERE id = ?`,
		artistID,
	); err != nil {
		return fmt.Errorf("sqlite: decrementing member_count for artist %s: %w", artistID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing membership delete: %w", err)
	}

	return nil
}

func scanMembership(s scanner) (*model.Membership, error) {
	var m model.Membership
	var permissions string

	err := s.Scan(
		&m.ID, &m.UserID, &m.ArtistID, &m.Role,
		&m.DisplayName, &m.AvatarURL, &m.Instrument,
		&permissions, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Permissions = unmarshalStrings(permissions)
	return &m, nil
}
