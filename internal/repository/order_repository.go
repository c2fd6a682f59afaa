package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

// OrderSummary is one order denormalized for display: seat numbers plus
// the movie/venue/showtime names, so clients never re-join.
type OrderSummary struct {
	ID         uint64   `json:"id"`
	TotalPrice float64  `json:"total_price"`
	Seats      []string `json:"seats"`
	MovieName  string   `json:"movie_name"`
	VenueName  string   `json:"venue_name"`
	Showtime   string   `json:"showtime"`
}

// OrderRepo encapsulates database operations for orders and the
// order_seats join table.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo given a DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateTx inserts the order and its seat links inside the booking
// transaction and returns the order ID.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o model.Order, seatIDs []uint64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (user_id, showtime_id, total_price) VALUES (?, ?, ?)`,
		o.UserID, o.ShowtimeID, o.TotalPrice)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if len(seatIDs) > 0 {
		query := `INSERT INTO order_seats (order_id, seat_id) VALUES `
		args := make([]interface{}, 0, len(seatIDs)*2)
		for i, sid := range seatIDs {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, id, sid)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, err
		}
	}
	return uint64(id), nil
}

// ListByUser returns a user's orders newest first, denormalized with
// seat numbers and display names.  Seat numbers come back as one
// GROUP_CONCAT column to keep this a single round trip.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]OrderSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT o.id, o.total_price,
		        COALESCE(GROUP_CONCAT(s.seat_number ORDER BY s.id), ''),
		        m.title, CONCAT(v.name, ' - ', v.location), st.timing
		 FROM orders o
		 JOIN showtimes st ON st.id = o.showtime_id
		 JOIN movies m ON m.id = st.movie_id
		 JOIN venues v ON v.id = st.venue_id
		 LEFT JOIN order_seats os ON os.order_id = o.id
		 LEFT JOIN seats s ON s.id = os.seat_id
		 WHERE o.user_id = ?
		 GROUP BY o.id, o.total_price, m.title, v.name, v.location, st.timing
		 ORDER BY o.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []OrderSummary
	for rows.Next() {
		var (
			o     OrderSummary
			seats string
		)
		if err := rows.Scan(&o.ID, &o.TotalPrice, &seats, &o.MovieName, &o.VenueName, &o.Showtime); err != nil {
			return nil, err
		}
		if seats != "" {
			o.Seats = strings.Split(seats, ",")
		} else {
			o.Seats = []string{}
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
