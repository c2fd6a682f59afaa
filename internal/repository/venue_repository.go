package repository

import (
	"context"
	"database/sql"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

// VenueRepo encapsulates database operations for venues and the
// venue_movies attachment table.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo given a DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// List returns one page of venues plus the total venue count.
func (r *VenueRepo) List(ctx context.Context, limit, offset int) ([]model.Venue, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, created_at FROM venues ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	venues := make([]model.Venue, 0, limit)
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Location, &v.CreatedAt); err != nil {
			return nil, 0, err
		}
		venues = append(venues, v)
	}
	return venues, total, rows.Err()
}

// GetByID returns a single venue or ErrVenueNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (model.Venue, error) {
	var v model.Venue
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, location, created_at FROM venues WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Location, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Venue{}, ErrVenueNotFound
	}
	return v, err
}

// Create inserts a venue and returns its generated ID.
func (r *VenueRepo) Create(ctx context.Context, v model.Venue) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO venues (name, location) VALUES (?, ?)`, v.Name, v.Location)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// AttachMovies writes venue_movies rows for each movie.  Re-attaching an
// already attached movie is a no-op.
func (r *VenueRepo) AttachMovies(ctx context.Context, venueID uint64, movieIDs []uint64) error {
	if len(movieIDs) == 0 {
		return nil
	}
	query := `INSERT IGNORE INTO venue_movies (venue_id, movie_id) VALUES `
	args := make([]interface{}, 0, len(movieIDs)*2)
	for i, id := range movieIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, venueID, id)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// MoviesFor returns the movies attached to a venue in attachment order.
func (r *VenueRepo) MoviesFor(ctx context.Context, venueID uint64) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT m.id, m.title, m.description, m.duration, m.poster, m.created_at
		 FROM movies m
		 JOIN venue_movies vm ON vm.movie_id = m.id
		 WHERE vm.venue_id = ?
		 ORDER BY m.id`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Duration, &m.Poster, &m.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// VenuesFor returns the venues a movie is attached to.
func (r *VenueRepo) VenuesFor(ctx context.Context, movieID uint64) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT v.id, v.name, v.location, v.created_at
		 FROM venues v
		 JOIN venue_movies vm ON vm.venue_id = v.id
		 WHERE vm.movie_id = ?
		 ORDER BY v.id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []model.Venue
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Location, &v.CreatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
