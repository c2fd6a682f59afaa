package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/movie-ticket-booking/internal/model"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
	"github.com/cinebook/movie-ticket-booking/internal/seatmap"
)

// VenueHandler serves venue browsing and the admin relationship
// mutations: attaching movies and appending show timings.  Adding a
// timing implicitly creates that showtime's immutable seat inventory.
type VenueHandler struct {
	Venues    *repository.VenueRepo
	Movies    *repository.MovieRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatRepo
}

// NewVenueHandler constructs a VenueHandler with the given dependencies.
func NewVenueHandler(venues *repository.VenueRepo, movies *repository.MovieRepo, showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo) *VenueHandler {
	if venues == nil || movies == nil || showtimes == nil || seats == nil {
		panic("nil repository passed to NewVenueHandler")
	}
	return &VenueHandler{Venues: venues, Movies: movies, Showtimes: showtimes, Seats: seats}
}

// GetAllVenues handles GET /venues/ with the same limit/offset and
// next_offset sentinel contract as the movie catalog.
func (h *VenueHandler) GetAllVenues(c echo.Context) error {
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)

	venues, total, err := h.Venues.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	nextOffset := offset + limit
	if nextOffset >= int(total) {
		nextOffset = -1
	}
	return c.JSON(http.StatusOK, echo.Map{
		"venues":      venues,
		"next_offset": nextOffset,
	})
}

// VenueRequest is the body of POST /venues/.
type VenueRequest struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
}

// CreateVenue handles POST /venues/ (admin).
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	var body VenueRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid input"})
	}
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	venue := model.Venue{Name: body.Name, Location: body.Location}
	id, err := h.Venues.Create(c.Request().Context(), venue)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create the venue"})
	}
	venue.ID = id
	return c.JSON(http.StatusCreated, echo.Map{"venue": venue})
}

// GetVenueByID handles GET /venues/:id, returning the venue with its
// attached movies and its showtimes (each carrying the movie title).
func (h *VenueHandler) GetVenueByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	ctx := c.Request().Context()
	venue, err := h.Venues.GetByID(ctx, id)
	if err == repository.ErrVenueNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Venue not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	movies, err := h.Venues.MoviesFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	showtimes, err := h.Showtimes.ListByVenue(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	type timing struct {
		ID         uint64 `json:"id"`
		Timing     string `json:"timing"`
		MovieID    uint64 `json:"movie_id"`
		MovieTitle string `json:"movie_title"`
	}
	times := make([]timing, 0, len(showtimes))
	for _, st := range showtimes {
		times = append(times, timing{ID: st.ShowtimeID, Timing: st.Timing, MovieID: st.MovieID, MovieTitle: st.MovieTitle})
	}
	if movies == nil {
		movies = []model.Movie{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"venue":      venue,
		"movies":     movies,
		"show_times": times,
	})
}

// MovieIDsRequest is the body of POST /venues/:id/movies/add.
type MovieIDsRequest struct {
	MovieIDs []uint64 `json:"movie_ids"`
}

// AddMoviesInVenue handles POST /venues/:id/movies/add (admin).
func (h *VenueHandler) AddMoviesInVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	var body MovieIDsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid movie IDs"})
	}
	if len(body.MovieIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_ids is required"})
	}
	if hasDuplicates(body.MovieIDs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Duplicate movie IDs found"})
	}

	ctx := c.Request().Context()
	if _, err := h.Venues.GetByID(ctx, id); err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	n, err := h.Movies.CountByIDs(ctx, body.MovieIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if n != len(body.MovieIDs) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Some movies not found"})
	}
	if err := h.Venues.AttachMovies(ctx, id, body.MovieIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add movies to venue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Movies successfully added to venue"})
}

// ShowTimingsRequest is the body of POST /venues/:id/timings/add.
type ShowTimingsRequest struct {
	MovieID     uint64   `json:"movie_id" validate:"required"`
	ShowTimings []string `json:"show_timings" validate:"required,min=1,dive,required"`
}

// AddShowTimings handles POST /venues/:id/timings/add (admin).  Each
// timing becomes a showtime whose seat inventory is generated on the
// spot; from then on only seat status may change.
func (h *VenueHandler) AddShowTimings(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	var body ShowTimingsRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid input"})
	}
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if _, err := h.Venues.GetByID(ctx, id); err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Movies.GetByID(ctx, body.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	for _, timing := range body.ShowTimings {
		stID, err := h.Showtimes.Create(ctx, model.Showtime{VenueID: id, MovieID: body.MovieID, Timing: timing})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error saving show time for " + timing})
		}
		if err := h.Seats.CreateBulk(ctx, seatmap.Generate(stID)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error generating seats for " + timing})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Show timings added successfully"})
}

// hasDuplicates reports whether ids contains any repeated value.
func hasDuplicates(ids []uint64) bool {
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
