package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bandhub/backstage/internal/apperror"
	"github.com/bandhub/backstage/internal/model"
	"github.com/bandhub/backstage/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const userColumns = `cognito_id, email, username, display_name, avatar_url, instrument, bio, profile_complete, created_at, updated_at`

// UpsertUser inserts the user on first login, or fills only the fields
// that are still empty on an existing row. The fill-if-empty rule is what
// makes explicit profile edits win over re-imported provider claims: a
// later login never overwrites a display name the user typed in.
func (db *DB) UpsertUser(ctx context.Context, user *model.User) error {
	existing, err := db.GetUserByID(ctx, user.CognitoID)
	if err != nil && !isNotFound(err) {
		return err
	}

	now := time.Now().UTC()

	if existing == nil {
		user.CreatedAt = now
		user.UpdatedAt = now
		user.ProfileComplete = user.IsProfileComplete()

		_, err = db.conn.ExecContext(ctx,
			`INSERT INTO users (`+userColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			user.CognitoID,
			user.Email,
			user.Username,
			user.DisplayName,
			user.AvatarURL,
			user.Instrument,
			user.Bio,
			user.ProfileComplete,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting user %s: %w", user.CognitoID, err)
		}
		return nil
	}

	// Existing row: incoming provider claims only fill gaps.
	merged := *existing
	if merged.Email == "" {
		merged.Email = user.Email
	}
	if merged.Username == "" {
		merged.Username = user.Username
	}
	if merged.DisplayName == "" {
		merged.DisplayName = user.DisplayName
	}
	if merged.AvatarURL == "" {
		merged.AvatarURL = user.AvatarURL
	}

	if err := db.UpdateUser(ctx, &merged); err != nil {
		return err
	}

	*user = merged
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, cognitoID string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE cognito_id = ?`,
		cognitoID,
	).Scan(
		&u.CognitoID, &u.Email, &u.Username, &u.DisplayName, &u.AvatarURL,
		&u.Instrument, &u.Bio, &u.ProfileComplete, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", cognitoID)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", cognitoID, err)
	}

	return &u, nil
}

func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()
	user.ProfileComplete = user.IsProfileComplete()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE users
		 SET email = ?, username = ?, display_name = ?, avatar_url = ?, instrument = ?, bio = ?, profile_complete = ?, updated_at = ?
		 WHERE cognito_id = ?`,
		user.Email,
		user.Username,
		user.DisplayName,
		user.AvatarURL,
		user.Instrument,
		user.Bio,
		user.ProfileComplete,
		user.UpdatedAt,
		user.CognitoID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.CognitoID, err)
	}

	return checkAffected(result, "user", user.CognitoID)
}
