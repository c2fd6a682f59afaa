// Package router wires handlers, middleware and routes onto the echo
// instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/cinebook/movie-ticket-booking/internal/config"
	"github.com/cinebook/movie-ticket-booking/internal/handler"
	"github.com/cinebook/movie-ticket-booking/internal/middleware"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
)

// Deps collects everything route registration needs.
type Deps struct {
	Users  *repository.UserRepo
	Movies *handler.MovieHandler
	Venues *handler.VenueHandler
	Seats  *handler.SeatHandler
	Orders *handler.OrderHandler
	Auth   *handler.UserHandler

	JWTSecret string
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
}

// New builds the echo instance with all routes registered.  Admin-only
// routes stack RequireAdmin on top of RequireAuth; catalog GETs go
// through the Redis response cache.  The rate limiter is attached per
// route after auth so the user-keyed strategies see who is calling;
// the health probe stays unthrottled.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	auth := middleware.RequireAuth(d.JWTSecret, d.Users)
	admin := middleware.RequireAdmin()
	cached := middleware.CatalogCache(d.Cache, d.Redis)
	limit := middleware.RateLimit(d.RateLimit, d.Redis)

	e.GET("/healthz", handler.Health(d.Movies.Movies.DB()))

	movies := e.Group("/movies")
	movies.GET("/", d.Movies.GetAllMovies, limit, cached)
	movies.GET("/:id", d.Movies.GetMovieByID, limit, cached)
	movies.GET("/venues/:id", d.Movies.GetVenuesByMovie, limit, cached)
	movies.POST("/", d.Movies.CreateMovie, auth, limit, admin)
	movies.PATCH("/:id/poster", d.Movies.UpdateMoviePoster, auth, limit, admin)
	movies.POST("/upload/poster/:id", d.Movies.UploadMoviePoster, auth, limit, admin)

	venues := e.Group("/venues")
	venues.GET("/", d.Venues.GetAllVenues, limit, cached)
	venues.GET("/:id", d.Venues.GetVenueByID, limit, cached)
	venues.POST("/", d.Venues.CreateVenue, auth, limit, admin)
	venues.POST("/:id/movies/add", d.Venues.AddMoviesInVenue, auth, limit, admin)
	venues.POST("/:id/timings/add", d.Venues.AddShowTimings, auth, limit, admin)

	seats := e.Group("/seats")
	seats.GET("/showtime/:id", d.Seats.GetSeatLayout, limit)
	seats.POST("/showtime/reserve", d.Seats.ReserveSeats, auth, limit)
	seats.POST("/showtime/book", d.Seats.BookSeats, auth, limit)

	user := e.Group("/user")
	user.POST("/signup", d.Auth.SignUp, limit)
	user.POST("/login", d.Auth.Login, limit)
	user.POST("/logout", d.Auth.Logout, auth, limit)
	user.GET("/me", d.Auth.GetMe, auth, limit)

	e.GET("/orders/", d.Orders.GetOrders, auth, limit)

	return e
}
