package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/movie-ticket-booking/internal/middleware"
	"github.com/cinebook/movie-ticket-booking/internal/model"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
	"github.com/cinebook/movie-ticket-booking/internal/utils"
)

// sessionCookie is the cookie browsers carry the session token in.
// Non-browser clients use the Authorization header instead.
const sessionCookie = "Authorization"

// UserHandler serves signup, login, logout and the current-user probe.
type UserHandler struct {
	Users      *repository.UserRepo
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int
}

func NewUserHandler(users *repository.UserRepo, secret string, ttl time.Duration, bcryptCost int) *UserHandler {
	if users == nil {
		panic("nil repository passed to NewUserHandler")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &UserHandler{Users: users, JWTSecret: secret, SessionTTL: ttl, BcryptCost: bcryptCost}
}

// SignupRequest is the body of POST /user/signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignUp creates an account and logs it in immediately: the response
// carries the token and sets the session cookie, so the client does not
// need a second login call.
func (h *UserHandler) SignUp(c echo.Context) error {
	var body SignupRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	hash, err := utils.HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hash password"})
	}
	ctx := c.Request().Context()
	id, err := h.Users.Create(ctx, model.User{Name: body.Name, Email: body.Email, PasswordHash: hash})
	if err == repository.ErrEmailTaken {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already registered"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}

	token, err := utils.NewSessionToken(h.JWTSecret, id, h.SessionTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	h.setSessionCookie(c, token)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"token":   token,
		"user":    echo.Map{"id": id, "name": body.Name, "email": body.Email},
	})
}

// LoginRequest is the body of POST /user/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a session token.  Unknown email
// and wrong password produce the same response so the endpoint does not
// leak which emails exist.
func (h *UserHandler) Login(c echo.Context) error {
	var body LoginRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	user, err := h.Users.GetByEmail(ctx, body.Email)
	if err == repository.ErrUserNotFound || (err == nil && !utils.VerifyPassword(user.PasswordHash, body.Password)) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid email or password"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	token, err := utils.NewSessionToken(h.JWTSecret, user.ID, h.SessionTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Logout clears the session cookie.  Tokens are not revoked server side;
// a held bearer token stays valid until it expires.
func (h *UserHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// GetMe returns the authenticated user.  Clients call it on startup to
// restore a session from a stored cookie or token.
func (h *UserHandler) GetMe(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *UserHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.SessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
