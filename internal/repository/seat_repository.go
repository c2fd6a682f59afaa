package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

// SeatRepo encapsulates database operations for seats.  The reserve and
// book handlers run their state transitions through the *Tx methods
// inside one transaction so that availability checks and updates are
// atomic under row locks.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// DB exposes the underlying handle for opening transactions.
func (r *SeatRepo) DB() *sql.DB { return r.db }

// CreateBulk inserts the seat inventory for a new showtime in one
// statement.  Timestamps default in the DB; the generated IDs are not
// read back.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (showtime_id, seat_number, price, status) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.ShowtimeID, s.SeatNumber, s.Price, s.Status)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ListByShowtime returns the full seat set of a showtime in seat-number
// order (row label first, then numeric position via id order).
func (r *SeatRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, showtime_id, seat_number, price, status, reserved_by, reserved_at, created_at
		 FROM seats WHERE showtime_id = ? ORDER BY id`, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.SeatNumber, &s.Price, &s.Status,
			&s.ReservedBy, &s.ReservedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// ExpireHolds releases every hold on the showtime older than cutoff.
// Booked seats are never touched.  Returns the number of released seats.
func (r *SeatRepo) ExpireHolds(ctx context.Context, showtimeID uint64, cutoff time.Time) (int64, error) {
	return expireHolds(ctx, r.db, showtimeID, cutoff)
}

// ExpireHoldsTx is ExpireHolds inside an existing transaction.  Reserve
// and book call it first so stale holds never block or pass checks.
func (r *SeatRepo) ExpireHoldsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, cutoff time.Time) (int64, error) {
	return expireHolds(ctx, tx, showtimeID, cutoff)
}

// execer is the intersection of *sql.DB and *sql.Tx the seat updates need.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func expireHolds(ctx context.Context, ex execer, showtimeID uint64, cutoff time.Time) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`UPDATE seats SET status = ?, reserved_by = NULL, reserved_at = NULL
		 WHERE showtime_id = ? AND status = ? AND reserved_at < ?`,
		model.SeatAvailable, showtimeID, model.SeatReserved, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// LockForUpdateTx loads the requested seats of a showtime under FOR
// UPDATE row locks.  Returns ErrSeatNotFound unless every requested ID
// exists for that showtime.
func (r *SeatRepo) LockForUpdateTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, nil
	}
	query := `SELECT id, showtime_id, seat_number, price, status, reserved_by, reserved_at, created_at
	          FROM seats WHERE showtime_id = ? AND id IN (` + placeholders(len(seatIDs)) + `) FOR UPDATE`
	args := append([]interface{}{showtimeID}, idArgs(seatIDs)...)
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.SeatNumber, &s.Price, &s.Status,
			&s.ReservedBy, &s.ReservedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(seats) != len(seatIDs) {
		return nil, ErrSeatNotFound
	}
	return seats, nil
}

// ReserveTx marks the given seats as held by userID.  Callers must have
// verified availability under lock first.
func (r *SeatRepo) ReserveTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, userID uint64, at time.Time) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `UPDATE seats SET status = ?, reserved_by = ?, reserved_at = ?
	          WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := append([]interface{}{model.SeatReserved, userID, at}, idArgs(seatIDs)...)
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// BookTx marks the given seats as booked, the terminal state.
func (r *SeatRepo) BookTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `UPDATE seats SET status = ?, reserved_by = NULL, reserved_at = NULL
	          WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := append([]interface{}{model.SeatBooked}, idArgs(seatIDs)...)
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
