package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/cinebook/movie-ticket-booking/internal/config"
	"github.com/cinebook/movie-ticket-booking/internal/model"
)

func limiterContext(t *testing.T, user *model.User) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/seats/showtime/reserve", nil)
	req.RemoteAddr = "203.0.113.9:4711"
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetPath("/seats/showtime/reserve")
	if user != nil {
		c.Set(userKey, *user)
	}
	return c
}

func TestBuildRateKeyUsesAuthenticatedUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}

	alice := limiterContext(t, &model.User{ID: 7})
	bob := limiterContext(t, &model.User{ID: 8})

	assert.Equal(t, "rl:user:7", buildRateKey(cfg, alice))
	assert.Equal(t, "rl:user:8", buildRateKey(cfg, bob))
	assert.NotEqual(t, buildRateKey(cfg, alice), buildRateKey(cfg, bob))
}

func TestBuildRateKeyAnonymousFallsBackToIP(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	assert.Equal(t, "rl:ip:203.0.113.9", buildRateKey(cfg, limiterContext(t, nil)))
}

func TestBuildRateKeyStrategies(t *testing.T) {
	c := limiterContext(t, &model.User{ID: 7})

	assert.Equal(t, "rl:ip:203.0.113.9",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:user:7:route:POST /seats/showtime/reserve",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}, c))
	assert.Equal(t, "rl:ip:203.0.113.9:user:7:route:POST /seats/showtime/reserve",
		buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}, c))
}
