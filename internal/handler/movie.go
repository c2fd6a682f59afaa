package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/movie-ticket-booking/internal/model"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
	"github.com/cinebook/movie-ticket-booking/internal/storage"
)

// defaultPageSize is the catalog page size when the client sends none.
const defaultPageSize = 5

// MovieHandler serves the movie catalog: public browsing plus the
// admin-only create and poster operations.
type MovieHandler struct {
	Movies    *repository.MovieRepo
	Venues    *repository.VenueRepo
	Showtimes *repository.ShowtimeRepo
	Uploader  *storage.Uploader // nil disables multipart poster uploads
}

// NewMovieHandler constructs a MovieHandler with the given dependencies.
func NewMovieHandler(movies *repository.MovieRepo, venues *repository.VenueRepo, showtimes *repository.ShowtimeRepo, up *storage.Uploader) *MovieHandler {
	if movies == nil || venues == nil || showtimes == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Venues: venues, Showtimes: showtimes, Uploader: up}
}

// GetAllMovies handles GET /movies/.  Supports limit/offset pagination,
// an optional case-insensitive name filter and asc/desc title sort.  The
// response carries next_offset, -1 meaning the catalog is exhausted so
// clients stop issuing load-more requests.
func (h *MovieHandler) GetAllMovies(c echo.Context) error {
	limit := queryInt(c, "limit", defaultPageSize)
	offset := queryInt(c, "offset", 0)
	name := c.QueryParam("name")
	sort := "asc"
	if c.QueryParam("sort") == "desc" {
		sort = "desc"
	}

	movies, total, err := h.Movies.List(c.Request().Context(), limit, offset, name, sort)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	nextOffset := offset + limit
	if nextOffset >= int(total) {
		nextOffset = -1 // no more movies to load
	}
	return c.JSON(http.StatusOK, echo.Map{
		"movies":       movies,
		"total_movies": total,
		"next_offset":  nextOffset,
	})
}

// MovieRequest is the body of POST /movies/.
type MovieRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=50"`
	Description string `json:"desc" validate:"required"`
	Duration    string `json:"duration" validate:"required"`
	Poster      string `json:"poster"`
}

// CreateMovie handles POST /movies/ (admin).
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var body MovieRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid input"})
	}
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	movie := model.Movie{
		Title:       body.Title,
		Description: body.Description,
		Duration:    body.Duration,
		Poster:      body.Poster,
	}
	id, err := h.Movies.Create(c.Request().Context(), movie)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create the movie"})
	}
	movie.ID = id
	return c.JSON(http.StatusCreated, echo.Map{"movie": movie})
}

// GetMovieByID handles GET /movies/:id, returning the movie with the
// venues it is attached to.
func (h *MovieHandler) GetMovieByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, id)
	if err == repository.ErrMovieNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	venues, err := h.Venues.VenuesFor(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movie": movie, "venues": venues})
}

// GetVenuesByMovie handles GET /movies/venues/:id, grouping a movie's
// showtimes per venue for the showtime-picker screens.
func (h *MovieHandler) GetVenuesByMovie(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	rows, err := h.Showtimes.ListByMovie(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	type timing struct {
		ID     uint64 `json:"id"`
		Timing string `json:"timing"`
	}
	type venueGroup struct {
		ID        uint64   `json:"id"`
		Name      string   `json:"name"`
		Location  string   `json:"location"`
		MovieName string   `json:"movie_name"`
		ShowTimes []timing `json:"show_times"`
	}

	// rows come ordered by venue then showtime, so grouping preserves order
	var venues []venueGroup
	index := map[uint64]int{}
	for _, r := range rows {
		i, ok := index[r.VenueID]
		if !ok {
			i = len(venues)
			index[r.VenueID] = i
			venues = append(venues, venueGroup{
				ID:        r.VenueID,
				Name:      r.VenueName,
				Location:  r.VenueLocation,
				MovieName: r.MovieTitle,
			})
		}
		venues[i].ShowTimes = append(venues[i].ShowTimes, timing{ID: r.ShowtimeID, Timing: r.Timing})
	}
	if venues == nil {
		venues = []venueGroup{}
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": venues})
}

// PosterRequest is the body of PATCH /movies/:id/poster.
type PosterRequest struct {
	Poster string `json:"poster" validate:"required,url"`
}

// UpdateMoviePoster handles PATCH /movies/:id/poster (admin).
func (h *MovieHandler) UpdateMoviePoster(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var body PosterRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid input"})
	}
	if err := validate.Struct(body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if err := h.Movies.UpdatePoster(ctx, id, body.Poster); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update poster"})
	}
	movie, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"movie": movie})
}

// UploadMoviePoster handles POST /movies/upload/poster/:id (admin): a
// multipart upload under the "poster" key, stored in S3.
func (h *MovieHandler) UploadMoviePoster(c echo.Context) error {
	if h.Uploader == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "poster uploads are not configured"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	fh, err := c.FormFile("poster")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file uploaded under 'poster' key"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error opening file"})
	}
	defer f.Close()

	url, err := h.Uploader.Save(f, fh.Filename)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error saving file"})
	}
	if err := h.Movies.UpdatePoster(c.Request().Context(), id, url); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save movie poster URL"})
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// queryInt parses a non-negative integer query parameter, falling back
// to def on absence, garbage or negative values.  Negatives would reach
// LIMIT/OFFSET placeholders otherwise and fail the query.
func queryInt(c echo.Context, name string, def int) int {
	if s := c.QueryParam(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
