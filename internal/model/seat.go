package model

import "time"

// SeatStatus is the single authoritative state of a seat.  A seat is in
// exactly one state at any instant; the legacy wire format expresses this
// as three boolean flags, which are derived from this value at the JSON
// boundary so contradictory combinations cannot exist in memory.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatReserved  SeatStatus = "RESERVED"
	SeatBooked    SeatStatus = "BOOKED"
)

// Seat is one seat of a showtime's fixed inventory.  The seat set is
// created together with its showtime and never changes composition;
// only Status (and the reservation ownership columns) move.
//
// SeatNumber encodes row and column as a string, e.g. "A4"; the first
// character is the row label.  Price is per seat so venues may price
// rows differently.
type Seat struct {
	ID         uint64     // seats.id
	ShowtimeID uint64     // seats.showtime_id
	SeatNumber string     // seats.seat_number
	Price      float64    // seats.price
	Status     SeatStatus // seats.status
	ReservedBy *uint64    // seats.reserved_by; set only while RESERVED
	ReservedAt *time.Time // seats.reserved_at; hold start, drives expiry
	CreatedAt  time.Time  // seats.created_at
}

// Row returns the row label portion of the seat number.
func (s Seat) Row() string {
	if s.SeatNumber == "" {
		return ""
	}
	return s.SeatNumber[:1]
}
