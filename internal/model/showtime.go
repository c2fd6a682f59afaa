package model

import "time"

// Showtime is a scheduled screening of a movie at a venue, the unit
// against which seats are inventoried.  Immutable after creation from
// the client's point of view.
type Showtime struct {
	ID        uint64    `json:"id"`         // showtimes.id
	VenueID   uint64    `json:"venue_id"`   // showtimes.venue_id
	MovieID   uint64    `json:"movie_id"`   // showtimes.movie_id
	Timing    string    `json:"timing"`     // showtimes.timing, display string such as "19:30"
	CreatedAt time.Time `json:"created_at"` // showtimes.created_at
}
