// Package queue defines the message payloads exchanged over the broker
// and the publisher/consumer pair for booking confirmations.
package queue

// BookingConfirmedEvent is published when a booking succeeds.  It
// carries enough denormalized data for downstream consumers to log or
// notify without querying the primary database.  EventID is a uuid so
// consumers can deduplicate redeliveries.
type BookingConfirmedEvent struct {
	EventID     string   `json:"event_id"`
	OrderID     uint64   `json:"order_id"`
	UserID      uint64   `json:"user_id"`
	ShowtimeID  uint64   `json:"showtime_id"`
	MovieName   string   `json:"movie_name"`
	VenueName   string   `json:"venue_name"`
	Showtime    string   `json:"showtime"`
	Seats       []string `json:"seats"`
	TotalPrice  float64  `json:"total_price"`
	ConfirmedAt string   `json:"confirmed_at"`
}
