package model

import "time"

// Artist is a band or solo act.
//
// OwnerUserID is the authoritative owner, set from the session when the
// artist is created. ClaimedByUserID is a legacy field carried from an
// earlier claim flow; it is stored verbatim, only changed by explicit
// update, and nothing derives it from OwnerUserID or vice versa.
//
// MemberCount mirrors the number of memberships referencing this artist.
// It is adjusted inside the same transaction as every membership write,
// never recomputed on read.
type Artist struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Bio             string    `json:"bio,omitempty"`
	Genres          []string  `json:"genres"`
	Hometown        string    `json:"hometown,omitempty"`
	OwnerUserID     string    `json:"owner_user_id,omitempty"`
	ClaimedByUserID string    `json:"claimedByUserId,omitempty"`
	MemberCount     int       `json:"member_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
