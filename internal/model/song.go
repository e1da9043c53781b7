package model

import "time"

// Song is a catalog entry. Artist is free text — there is deliberately no
// foreign key to the Artist entity, matching how songs are imported.
type Song struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Artist       string            `json:"artist,omitempty"`
	Album        string            `json:"album,omitempty"`
	DurationSecs int               `json:"duration_secs,omitempty"`
	Links        map[string]string `json:"links,omitempty"`
	Tags         []string          `json:"tags"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
