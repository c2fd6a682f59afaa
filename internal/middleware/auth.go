package middleware // reusable HTTP middleware for session and role enforcement

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/cinebook/movie-ticket-booking/internal/model"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
)

// userKey is the context key under which the authenticated user is stored.
const userKey = "user"

// RequireAuth validates the session token and loads the account it
// identifies.  Web clients carry the token in the Authorization cookie;
// mobile clients send it as a Bearer header, which is checked as a
// fallback.  On success the full user is stored in the echo context
// under "user".
func RequireAuth(secret string, users *repository.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := ""
			if ck, err := c.Cookie("Authorization"); err == nil {
				raw = ck.Value
			}
			if raw == "" {
				if h := c.Request().Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
					raw = strings.TrimPrefix(h, "Bearer ")
				}
			}
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization required"})
			}

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token claims"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token claims"})
			}

			user, err := users.GetByID(c.Request().Context(), uint64(sub))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "User not found"})
			}
			c.Set(userKey, user)
			return next(c)
		}
	}
}

// RequireAdmin rejects requests whose authenticated user is not an
// admin.  Must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(userKey).(model.User)
			if !ok || !user.IsAdmin {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized, admin access required"})
			}
			return next(c)
		}
	}
}

// CurrentUser extracts the authenticated user placed in the context by
// RequireAuth.
func CurrentUser(c echo.Context) (model.User, bool) {
	user, ok := c.Get(userKey).(model.User)
	return user, ok
}
