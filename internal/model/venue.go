package model

import "time"

// Venue is a theater location.  Movies are attached to venues by admins
// and showtimes reference a venue+movie pair.
type Venue struct {
	ID        uint64    `json:"id"`         // venues.id
	Name      string    `json:"name"`       // venues.name
	Location  string    `json:"location"`   // venues.location
	CreatedAt time.Time `json:"created_at"` // venues.created_at
}
