package model

import "time"

// Order is the record of a confirmed booking.  Created only by a
// successful book call; the total is the sum of the seat prices read
// under lock at booking time.
type Order struct {
	ID         uint64    `json:"id"`          // orders.id
	UserID     uint64    `json:"user_id"`     // orders.user_id
	ShowtimeID uint64    `json:"showtime_id"` // orders.showtime_id
	TotalPrice float64   `json:"total_price"` // orders.total_price
	CreatedAt  time.Time `json:"created_at"`  // orders.created_at
}
