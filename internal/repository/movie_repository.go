package repository

import (
	"context"
	"database/sql"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

// MovieRepo encapsulates database operations for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo given a DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *MovieRepo) DB() *sql.DB { return r.db }

// List returns one catalog page ordered by title plus the total count of
// movies matching the optional name filter.  sort must be "asc" or
// "desc"; it is interpolated from that fixed set, never from user input.
func (r *MovieRepo) List(ctx context.Context, limit, offset int, name, sort string) ([]model.Movie, int64, error) {
	if sort != "desc" {
		sort = "asc"
	}
	where := ""
	args := []interface{}{}
	if name != "" {
		where = " WHERE LOWER(title) LIKE LOWER(?)"
		args = append(args, "%"+name+"%")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, title, description, duration, poster, created_at FROM movies" +
		where + " ORDER BY title " + sort + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	movies := make([]model.Movie, 0, limit)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Duration, &m.Poster, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		movies = append(movies, m)
	}
	return movies, total, rows.Err()
}

// GetByID returns a single movie or ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	var m model.Movie
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, duration, poster, created_at FROM movies WHERE id = ?`, id).
		Scan(&m.ID, &m.Title, &m.Description, &m.Duration, &m.Poster, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Movie{}, ErrMovieNotFound
	}
	return m, err
}

// Create inserts a movie and returns its generated ID.
func (r *MovieRepo) Create(ctx context.Context, m model.Movie) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (title, description, duration, poster) VALUES (?, ?, ?, ?)`,
		m.Title, m.Description, m.Duration, m.Poster)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// UpdatePoster sets the poster URL of a movie.  Returns
// ErrMovieNotFound when the movie does not exist.
func (r *MovieRepo) UpdatePoster(ctx context.Context, id uint64, poster string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE movies SET poster = ? WHERE id = ?`, poster, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is also 0 when the URL is unchanged; confirm existence.
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
			return ErrMovieNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

// CountByIDs reports how many of the given movie IDs exist.  Used to
// verify an attachment request before writing the join rows.
func (r *MovieRepo) CountByIDs(ctx context.Context, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `SELECT COUNT(*) FROM movies WHERE id IN (` + placeholders(len(ids)) + `)`
	var n int
	err := r.db.QueryRowContext(ctx, query, idArgs(ids)...).Scan(&n)
	return n, err
}

// placeholders returns n comma-separated "?" markers for IN clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	s := "?"
	for i := 1; i < n; i++ {
		s += ", ?"
	}
	return s
}

func idArgs(ids []uint64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
