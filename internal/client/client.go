// Package client is the typed HTTP client for the booking API.  It
// carries the session in both transports the server accepts: the
// Authorization cookie via a jar for browser-like use, and a bearer
// token for everything else.  It implements booking.Service so the
// reservation flow can run against it directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/cinebook/movie-ticket-booking/internal/booking"
)

// Client talks to one booking API base URL.  Safe for sequential use;
// the front ends drive one call at a time.
type Client struct {
	base  string
	http  *http.Client
	token string
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(base string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}, nil
}

// SetToken sets the bearer token sent on subsequent requests.  The
// cookie jar already covers web-style sessions; the token covers
// restarts where only the stored credential survives.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string { return c.token }

// apiError is the server's error envelope.
type apiError struct {
	Message string `json:"error"`
	Status  int    `json:"-"`
}

func (e *apiError) Error() string { return e.Message }

// StatusCode exposes the HTTP status carried by an API error, 0 for
// other errors.
func StatusCode(err error) int {
	if ae, ok := err.(*apiError); ok {
		return ae.Status
	}
	return 0
}

// do issues one JSON request.  Non-2xx responses are decoded into the
// error envelope; a body that is not the envelope falls back to a
// generic message so transport noise never masks the status.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ae := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(data, ae) != nil || ae.Message == "" {
			ae.Message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return ae
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Movies fetches one catalog page.  name filters by title substring;
// sort is "asc" or "desc".  NextOffset is -1 on the last page.
func (c *Client) Movies(ctx context.Context, limit, offset int, name, sort string) (MoviePage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if name != "" {
		q.Set("name", name)
	}
	if sort != "" {
		q.Set("sort", sort)
	}
	path := "/movies/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var page MoviePage
	err := c.do(ctx, http.MethodGet, path, nil, &page)
	return page, err
}

// Movie fetches one movie with its attached venues.
func (c *Client) Movie(ctx context.Context, id uint64) (MovieDetail, error) {
	var d MovieDetail
	err := c.do(ctx, http.MethodGet, "/movies/"+strconv.FormatUint(id, 10), nil, &d)
	return d, err
}

// VenuesForMovie fetches a movie's showtimes grouped per venue.
func (c *Client) VenuesForMovie(ctx context.Context, movieID uint64) ([]VenueShowtimes, error) {
	var resp struct {
		Venues []VenueShowtimes `json:"venues"`
	}
	err := c.do(ctx, http.MethodGet, "/movies/venues/"+strconv.FormatUint(movieID, 10), nil, &resp)
	return resp.Venues, err
}

// Venues fetches one page of venues.
func (c *Client) Venues(ctx context.Context, limit, offset int) (VenuePage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/venues/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var page VenuePage
	err := c.do(ctx, http.MethodGet, path, nil, &page)
	return page, err
}

// Venue fetches one venue with its movies and showtimes.
func (c *Client) Venue(ctx context.Context, id uint64) (VenueDetail, error) {
	var d VenueDetail
	err := c.do(ctx, http.MethodGet, "/venues/"+strconv.FormatUint(id, 10), nil, &d)
	return d, err
}

// SeatLayout fetches the seat map for a showtime.
func (c *Client) SeatLayout(ctx context.Context, showtimeID uint64) (booking.Layout, error) {
	var l booking.Layout
	err := c.do(ctx, http.MethodGet, "/seats/showtime/"+strconv.FormatUint(showtimeID, 10), nil, &l)
	return l, err
}

type seatAction struct {
	ShowID  uint64   `json:"show_id"`
	SeatIDs []uint64 `json:"seat_ids"`
}

// ReserveSeats requests a timed hold on the given seats.
func (c *Client) ReserveSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64) error {
	return c.do(ctx, http.MethodPost, "/seats/showtime/reserve", seatAction{showtimeID, seatIDs}, nil)
}

// BookSeats confirms held seats into an order.
func (c *Client) BookSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64) (booking.BookResult, error) {
	var res booking.BookResult
	err := c.do(ctx, http.MethodPost, "/seats/showtime/book", seatAction{showtimeID, seatIDs}, &res)
	return res, err
}

// Signup registers an account.  The server logs the new account in, so
// the returned token is stored on the client.
func (c *Client) Signup(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/user/signup", map[string]string{
		"name": name, "email": email, "password": password,
	}, &resp)
	if err == nil {
		c.token = resp.Token
	}
	return resp, err
}

// Login authenticates and stores the session token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/user/login", map[string]string{
		"email": email, "password": password,
	}, &resp)
	if err == nil {
		c.token = resp.Token
	}
	return resp, err
}

// Logout ends the session server-side and drops the local token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/user/logout", nil, nil)
	if err == nil || StatusCode(err) == http.StatusUnauthorized {
		c.token = ""
		return nil
	}
	return err
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/user/me", nil, &resp)
	return resp.User, err
}

// Orders returns the caller's booking history, newest first.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var resp struct {
		Orders []Order `json:"orders"`
	}
	err := c.do(ctx, http.MethodGet, "/orders/", nil, &resp)
	return resp.Orders, err
}

// CreateMovie adds a movie to the catalog.  Admin only.
func (c *Client) CreateMovie(ctx context.Context, in NewMovie) error {
	return c.do(ctx, http.MethodPost, "/movies/", in, nil)
}

// SetMoviePoster sets a movie's poster to an already-hosted URL.  Admin only.
func (c *Client) SetMoviePoster(ctx context.Context, movieID uint64, posterURL string) error {
	return c.do(ctx, http.MethodPatch, "/movies/"+strconv.FormatUint(movieID, 10)+"/poster",
		map[string]string{"poster": posterURL}, nil)
}

// UploadMoviePoster uploads a poster image for a movie.  Admin only.
func (c *Client) UploadMoviePoster(ctx context.Context, movieID uint64, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("poster", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/movies/upload/poster/"+strconv.FormatUint(movieID, 10), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		ae := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(data, ae) != nil || ae.Message == "" {
			ae.Message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return "", ae
	}
	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// CreateVenue creates a venue. Admin only.
func (c *Client) CreateVenue(ctx context.Context, name, location string) error {
	return c.do(ctx, http.MethodPost, "/venues/", map[string]string{
		"name": name, "location": location,
	}, nil)
}

// AttachMovies attaches movies to a venue. Admin only.
func (c *Client) AttachMovies(ctx context.Context, venueID uint64, movieIDs []uint64) error {
	return c.do(ctx, http.MethodPost, "/venues/"+strconv.FormatUint(venueID, 10)+"/movies/add",
		map[string][]uint64{"movie_ids": movieIDs}, nil)
}

// AddShowTimings appends showtimes for a venue and movie, generating
// each showtime's seat inventory server-side. Admin only.
func (c *Client) AddShowTimings(ctx context.Context, venueID, movieID uint64, timings []string) error {
	return c.do(ctx, http.MethodPost, "/venues/"+strconv.FormatUint(venueID, 10)+"/timings/add",
		map[string]interface{}{"movie_id": movieID, "show_timings": timings}, nil)
}
