package model

import "time"

// User is an account on the platform.  PasswordHash is never exposed in
// API responses.
type User struct {
	ID           uint64    `json:"id"`       // users.id
	Name         string    `json:"name"`     // users.name
	Email        string    `json:"email"`    // users.email, unique
	PasswordHash string    `json:"-"`        // users.password_hash, bcrypt
	IsAdmin      bool      `json:"is_admin"` // users.is_admin
	CreatedAt    time.Time `json:"created_at"`
}
