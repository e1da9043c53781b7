package model

import "time"

// User is a registered account, keyed by the identity provider's subject
// id (CognitoID). Rows are upserted on first OAuth login; after that,
// provider claims only fill fields that are still empty, so explicit
// profile edits always win over re-imported provider data.
type User struct {
	CognitoID       string    `json:"cognito_id"`
	Email           string    `json:"email,omitempty"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"display_name,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Instrument      string    `json:"instrument,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	ProfileComplete bool      `json:"profile_complete"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsProfileComplete reports whether the fields the UI needs before
// letting a user join a band are all filled in.
func (u *User) IsProfileComplete() bool {
	return u.DisplayName != "" && u.Instrument != ""
}
