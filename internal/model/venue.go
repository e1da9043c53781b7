// Package model defines the data structures used throughout the application.
package model

import "time"

// Venue is a performance venue. Lat/Lng of zero means the venue has no
// usable coordinates and is excluded from listings.
type Venue struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Capacity  int       `json:"capacity,omitempty"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasCoordinates reports whether the venue carries a real position.
// The original data set used 0/0 as "no location", so both must be nonzero.
func (v *Venue) HasCoordinates() bool {
	return v.Lat != 0 && v.Lng != 0
}
