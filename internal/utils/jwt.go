package utils // package utils provides helpers for session tokens and password hashing

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewSessionToken builds and signs an HS256 JWT identifying a user
// session.  The token carries the standard subject (sub), expiration
// (exp) and issued-at (iat) claims.  Web clients receive it in the
// Authorization cookie; mobile clients send it back as a bearer token.
func NewSessionToken(secret string, userID uint64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
