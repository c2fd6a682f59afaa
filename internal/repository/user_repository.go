package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

// UserRepo encapsulates database operations for user accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo given a DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a user and returns its generated ID.  A duplicate email
// surfaces as ErrEmailTaken via the unique key, so signup needs no
// separate existence check.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, is_admin) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, u.IsAdmin)
	if err != nil {
		var me *mysql.MySQLError
		// 1062 = ER_DUP_ENTRY
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// GetByEmail returns the user with the given email or ErrUserNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, `email = ?`, email)
}

// GetByID returns the user with the given ID or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getBy(ctx, `id = ?`, id)
}

func (r *UserRepo) getBy(ctx context.Context, where string, arg interface{}) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, is_admin, created_at FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}
