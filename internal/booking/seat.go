// Package booking implements the client side of the two-phase seat
// reservation protocol: load a layout, toggle a selection, reserve the
// selection to obtain a timed hold, then book the held seats.  The
// package holds no rendering; the terminal front ends consume it
// through the Service interface and the Flow state machine.
package booking

import (
	"encoding/json"
	"sort"
)

// SeatStatus is the single state a seat is in.  The wire format still
// carries three booleans; decoding collapses them here so contradictory
// combinations cannot be observed past the JSON boundary.
type SeatStatus string

const (
	StatusAvailable SeatStatus = "AVAILABLE"
	StatusReserved  SeatStatus = "RESERVED"
	StatusBooked    SeatStatus = "BOOKED"
)

// Seat is one seat in a showtime layout as the booking API reports it.
type Seat struct {
	ID         uint64
	SeatNumber string
	Price      float64
	Status     SeatStatus
}

type seatWire struct {
	ID          uint64  `json:"id"`
	SeatNumber  string  `json:"seat_number"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"is_available"`
	IsReserved  bool    `json:"is_reserved"`
	IsBooked    bool    `json:"is_booked"`
}

// UnmarshalJSON derives the status from the three wire flags.  Booked
// wins over reserved, reserved over available; a seat claiming none of
// the three is treated as booked, the only safe reading.
func (s *Seat) UnmarshalJSON(data []byte) error {
	var w seatWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.ID = w.ID
	s.SeatNumber = w.SeatNumber
	s.Price = w.Price
	switch {
	case w.IsBooked:
		s.Status = StatusBooked
	case w.IsReserved:
		s.Status = StatusReserved
	case w.IsAvailable:
		s.Status = StatusAvailable
	default:
		s.Status = StatusBooked
	}
	return nil
}

// MarshalJSON writes the seat back in the three-flag wire form.
func (s Seat) MarshalJSON() ([]byte, error) {
	return json.Marshal(seatWire{
		ID:          s.ID,
		SeatNumber:  s.SeatNumber,
		Price:       s.Price,
		IsAvailable: s.Status == StatusAvailable,
		IsReserved:  s.Status == StatusReserved,
		IsBooked:    s.Status == StatusBooked,
	})
}

// Layout is a showtime's seat map plus the display metadata the
// selection screens show.
type Layout struct {
	Showtime  string            `json:"showtime"`
	VenueID   uint64            `json:"venue"`
	VenueName string            `json:"venue_name"`
	MovieName string            `json:"movie_name"`
	Seats     map[string][]Seat `json:"seats"`
}

// Rows returns the layout's row labels in sorted order.  Map iteration
// order would shuffle the seat map between redraws.
func (l Layout) Rows() []string {
	rows := make([]string, 0, len(l.Seats))
	for r := range l.Seats {
		rows = append(rows, r)
	}
	sort.Strings(rows)
	return rows
}

// AisleAfter reports whether a visual gap belongs after seat index i in
// a row of rowLen seats.  Fixed house geometry: rows of exactly ten
// seats split five and five.
func AisleAfter(i, rowLen int) bool {
	return rowLen == 10 && i == 4
}
