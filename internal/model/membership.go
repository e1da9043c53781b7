package model

import "time"

// Membership roles.
var MembershipRoles = []string{"owner", "admin", "member"}

// Membership grants a User a role on an Artist. The profile fields are
// per-band overrides: nil means "inherit from the user's profile", which
// is why they are pointers rather than zero-valued strings.
//
// Referential integrity against User and Artist is best-effort, resolved
// at read time; deleting an artist does not cascade here.
type Membership struct {
	ID          string    `json:"membership_id"`
	UserID      string    `json:"user_id"`
	ArtistID    string    `json:"artist_id"`
	Role        string    `json:"role"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Instrument  *string   `json:"instrument"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
