package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/repository"
)

var _ repository.OAuthStateRepository = (*DB)(nil)

// The pending-state table replaces the in-process map a naive handler
// would use. The authorize redirect and the provider callback are two
// separate requests that may land on two separate processes, so the only
// correct home for pending state is shared storage with an expiry.

func (db *DB) PutState(ctx context.Context, state string, expiresAt time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO oauth_states (state, created_at, expires_at) VALUES (?, ?, ?)`,
		state, time.Now().UTC(), expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: storing oauth state: %w", err)
	}
	return nil
}

// ConsumeState deletes the row and reports whether it was present and
// unexpired. The single DELETE makes consumption atomic: two concurrent
// callbacks with the same state race on the row and exactly one wins.
func (db *DB) ConsumeState(ctx context.Context, state string, now time.Time) (bool, error) {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM oauth_states WHERE state = ? AND expires_at > ?`,
		state, now.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: consuming oauth state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		// Expired rows are swept opportunistically here rather than by a
		// background job; an expired state is indistinguishable from an
		// unknown one to the caller, which is what CSRF handling wants.
		_ = db.PurgeExpiredStates(ctx, now)
		return false, nil
	}

	return true, nil
}

func (db *DB) PurgeExpiredStates(ctx context.Context, now time.Time) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM oauth_states WHERE expires_at <= ?`, now.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: purging expired oauth states: %w", err)
	}
	return nil
}

// isNotFound reports whether err is the domain NotFound error.
func isNotFound(err error) bool {
	return errors.Is(err, apperror.ErrNotFound)
}
