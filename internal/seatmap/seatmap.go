// Package seatmap shapes seat inventory for the wire: generating the
// default layout for a new showtime and grouping a flat seat list into
// the row->seats mapping the clients render.
package seatmap

import (
	"fmt"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

const (
	defaultRows      = "ABCDE"
	defaultPerRow    = 10
	defaultSeatPrice = 250
)

// SeatView is one seat as serialized in the layout response.  The three
// mutually exclusive flags are derived from the seat's single status so
// the wire format stays compatible with existing clients.
type SeatView struct {
	ID          uint64  `json:"id"`
	SeatNumber  string  `json:"seat_number"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"is_available"`
	IsReserved  bool    `json:"is_reserved"`
	IsBooked    bool    `json:"is_booked"`
}

// Generate builds the default seat inventory for a new showtime: rows A
// through E with ten seats each at a flat price.  Seat sets are created
// once here and never change composition afterwards.
func Generate(showtimeID uint64) []model.Seat {
	seats := make([]model.Seat, 0, len(defaultRows)*defaultPerRow)
	for _, row := range defaultRows {
		for n := 1; n <= defaultPerRow; n++ {
			seats = append(seats, model.Seat{
				ShowtimeID: showtimeID,
				SeatNumber: fmt.Sprintf("%c%d", row, n),
				Price:      defaultSeatPrice,
				Status:     model.SeatAvailable,
			})
		}
	}
	return seats
}

// Matrix groups seats by row label.  Input order (catalog order) is
// preserved within each row.
func Matrix(seats []model.Seat) map[string][]SeatView {
	m := make(map[string][]SeatView)
	for _, s := range seats {
		row := s.Row()
		if row == "" {
			continue
		}
		m[row] = append(m[row], SeatView{
			ID:          s.ID,
			SeatNumber:  s.SeatNumber,
			Price:       s.Price,
			IsAvailable: s.Status == model.SeatAvailable,
			IsReserved:  s.Status == model.SeatReserved,
			IsBooked:    s.Status == model.SeatBooked,
		})
	}
	return m
}
