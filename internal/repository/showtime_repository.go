package repository

import (
	"context"
	"database/sql"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

// ShowtimeDetail joins a showtime with the display names the seat layout
// and order listings need.
type ShowtimeDetail struct {
	Showtime      model.Showtime
	MovieTitle    string
	VenueName     string
	VenueLocation string
}

// MovieShowtime is one row of a movie's schedule: the showtime plus the
// venue it plays at, used to group showtimes per venue.
type MovieShowtime struct {
	ShowtimeID    uint64
	Timing        string
	VenueID       uint64
	VenueName     string
	VenueLocation string
	MovieTitle    string
}

// VenueShowtime is one row of a venue's schedule with the movie title.
type VenueShowtime struct {
	ShowtimeID uint64
	Timing     string
	MovieID    uint64
	MovieTitle string
}

// ShowtimeRepo encapsulates database operations for showtimes.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo given a DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// Create inserts a showtime and returns its generated ID.
func (r *ShowtimeRepo) Create(ctx context.Context, st model.Showtime) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO showtimes (venue_id, movie_id, timing) VALUES (?, ?, ?)`,
		st.VenueID, st.MovieID, st.Timing)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetDetail returns a showtime with its movie title and venue name, or
// ErrShowtimeNotFound.
func (r *ShowtimeRepo) GetDetail(ctx context.Context, id uint64) (ShowtimeDetail, error) {
	var d ShowtimeDetail
	err := r.db.QueryRowContext(ctx,
		`SELECT st.id, st.venue_id, st.movie_id, st.timing, st.created_at,
		        m.title, v.name, v.location
		 FROM showtimes st
		 JOIN movies m ON m.id = st.movie_id
		 JOIN venues v ON v.id = st.venue_id
		 WHERE st.id = ?`, id).
		Scan(&d.Showtime.ID, &d.Showtime.VenueID, &d.Showtime.MovieID, &d.Showtime.Timing,
			&d.Showtime.CreatedAt, &d.MovieTitle, &d.VenueName, &d.VenueLocation)
	if err == sql.ErrNoRows {
		return ShowtimeDetail{}, ErrShowtimeNotFound
	}
	return d, err
}

// ListByMovie returns every showtime of a movie with venue display data.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64) ([]MovieShowtime, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT st.id, st.timing, v.id, v.name, v.location, m.title
		 FROM showtimes st
		 JOIN venues v ON v.id = st.venue_id
		 JOIN movies m ON m.id = st.movie_id
		 WHERE st.movie_id = ?
		 ORDER BY v.id, st.id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MovieShowtime
	for rows.Next() {
		var ms MovieShowtime
		if err := rows.Scan(&ms.ShowtimeID, &ms.Timing, &ms.VenueID, &ms.VenueName, &ms.VenueLocation, &ms.MovieTitle); err != nil {
			return nil, err
		}
		out = append(out, ms)
	}
	return out, rows.Err()
}

// ListByVenue returns every showtime of a venue with the movie title.
func (r *ShowtimeRepo) ListByVenue(ctx context.Context, venueID uint64) ([]VenueShowtime, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT st.id, st.timing, m.id, m.title
		 FROM showtimes st
		 JOIN movies m ON m.id = st.movie_id
		 WHERE st.venue_id = ?
		 ORDER BY st.id`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VenueShowtime
	for rows.Next() {
		var vs VenueShowtime
		if err := rows.Scan(&vs.ShowtimeID, &vs.Timing, &vs.MovieID, &vs.MovieTitle); err != nil {
			return nil, err
		}
		out = append(out, vs)
	}
	return out, rows.Err()
}
