// Package repository implements raw-SQL persistence for the booking
// service, one repo struct per entity.  Sentinel errors defined here let
// handlers translate failures into specific HTTP responses without string
// matching.
package repository

import "errors"

// ErrMovieNotFound is returned when a movie lookup matches no row.
var ErrMovieNotFound = errors.New("movie not found")

// ErrVenueNotFound is returned when a venue lookup matches no row.
var ErrVenueNotFound = errors.New("venue not found")

// ErrShowtimeNotFound is returned when a showtime lookup matches no row.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when creating a user with an email that
// already has an account.
var ErrEmailTaken = errors.New("email already exists")

// ErrSeatNotFound is returned when a requested seat does not exist for
// the given showtime.
var ErrSeatNotFound = errors.New("seat not found")
