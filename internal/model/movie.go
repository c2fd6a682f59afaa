package model

import "time"

// Movie is a catalog entry.  Created by admins, read-only to customers;
// only the poster reference may be updated after creation.
type Movie struct {
	ID          uint64    `json:"id"`         // movies.id
	Title       string    `json:"title"`      // movies.title
	Description string    `json:"desc"`       // movies.description column, "desc" on the wire
	Duration    string    `json:"duration"`   // movies.duration, display string such as "2h 28m"
	Poster      string    `json:"poster"`     // movies.poster, URL of the poster image
	CreatedAt   time.Time `json:"created_at"` // movies.created_at
}
