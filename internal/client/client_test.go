package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/movie-ticket-booking/internal/booking"
	"github.com/cinebook/movie-ticket-booking/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

func TestMoviesLastPageSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movies/", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"movies":       []Movie{{ID: 1, Title: "The Long Night"}},
			"total_movies": 1,
			"next_offset":  -1,
		})
	})

	page, err := c.Movies(context.Background(), 5, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, -1, page.NextOffset)
	assert.Len(t, page.Movies, 1)
}

func TestMoviesToleratesCapitalizedKeys(t *testing.T) {
	// older deployments emit Go field names; decoding must not care
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"movies":[{"ID":3,"Title":"Redline","Duration":"2h 5m"}],"total_movies":1,"next_offset":-1}`))
	})

	page, err := c.Movies(context.Background(), 0, 0, "", "")
	require.NoError(t, err)
	require.Len(t, page.Movies, 1)
	assert.Equal(t, uint64(3), page.Movies[0].ID)
	assert.Equal(t, "Redline", page.Movies[0].Title)
}

func TestMoviesDecodeServerEncoding(t *testing.T) {
	// encode the catalog page from the server's own model so a tag
	// drift between the two sides fails here instead of in the field
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"movies": []model.Movie{{
				ID:          9,
				Title:       "Redline",
				Description: "A detective chases one last case.",
				Duration:    "2h 5m",
				Poster:      "https://cdn.example.com/redline.jpg",
			}},
			"total_movies": 1,
			"next_offset":  -1,
		})
	})

	page, err := c.Movies(context.Background(), 5, 0, "", "")
	require.NoError(t, err)
	require.Len(t, page.Movies, 1)
	assert.Equal(t, "A detective chases one last case.", page.Movies[0].Description)
	assert.Equal(t, "https://cdn.example.com/redline.jpg", page.Movies[0].Poster)
}

func TestSeatLayoutDerivesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seats/showtime/7", r.URL.Path)
		w.Write([]byte(`{
			"showtime": "19:30",
			"venue": 2,
			"venue_name": "Galaxy Cinema - Downtown",
			"movie_name": "The Long Night",
			"seats": {"A": [
				{"id":1,"seat_number":"A1","price":250,"is_available":true,"is_reserved":false,"is_booked":false},
				{"id":2,"seat_number":"A2","price":250,"is_available":false,"is_reserved":true,"is_booked":false},
				{"id":3,"seat_number":"A3","price":250,"is_available":false,"is_reserved":false,"is_booked":true}
			]}
		}`))
	})

	layout, err := c.SeatLayout(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, layout.Seats["A"], 3)
	assert.Equal(t, booking.StatusAvailable, layout.Seats["A"][0].Status)
	assert.Equal(t, booking.StatusReserved, layout.Seats["A"][1].Status)
	assert.Equal(t, booking.StatusBooked, layout.Seats["A"][2].Status)
	assert.Equal(t, "Galaxy Cinema - Downtown", layout.VenueName)
}

func TestReserveConflictSurfacesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ShowID  uint64   `json:"show_id"`
			SeatIDs []uint64 `json:"seat_ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, uint64(7), body.ShowID)
		assert.Equal(t, []uint64{1, 2}, body.SeatIDs)

		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "Seat A1 is already booked or reserved"})
	})

	err := c.ReserveSeats(context.Background(), 7, []uint64{1, 2})
	require.Error(t, err)
	assert.Equal(t, "Seat A1 is already booked or reserved", err.Error())
	assert.Equal(t, http.StatusConflict, StatusCode(err))
}

func TestErrorFallbackOnOpaqueBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream down</html>"))
	})

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, "unexpected status 502", err.Error())
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
}

func TestLoginStoresTokenAndSendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/login":
			json.NewEncoder(w).Encode(AuthResponse{
				Token: "tok123",
				User:  User{ID: 5, Name: "Sam", Email: "sam@example.com"},
			})
		case "/user/me":
			assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]User{"user": {ID: 5, Name: "Sam"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	resp, err := c.Login(context.Background(), "sam@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "tok123", c.Token())
	assert.Equal(t, uint64(5), resp.User.ID)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sam", user.Name)
}

func TestBookSeatsReturnsOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seats/showtime/book", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":     "Seats booked successfully",
			"order_id":    42,
			"total_price": 500.0,
		})
	})

	res, err := c.BookSeats(context.Background(), 7, []uint64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.OrderID)
	assert.Equal(t, 500.0, res.TotalPrice)
}

func TestSessionRestoreRejectsDeadToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	})
	s := NewSession(c)

	assert.False(t, s.Restore(context.Background(), "expired"))
	assert.False(t, s.LoggedIn())
	assert.Empty(t, c.Token())
}

func TestFlowAgainstHTTPClient(t *testing.T) {
	// the client satisfies booking.Service end to end
	reserved := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/seats/showtime/7":
			avail := `"is_available":true,"is_reserved":false`
			if reserved {
				avail = `"is_available":false,"is_reserved":true`
			}
			w.Write([]byte(`{"showtime":"19:30","venue":1,"venue_name":"Galaxy Cinema - Downtown","movie_name":"Redline",
				"seats":{"A":[{"id":1,"seat_number":"A1","price":250,` + avail + `,"is_booked":false}]}}`))
		case "/seats/showtime/reserve":
			reserved = true
			json.NewEncoder(w).Encode(map[string]string{"message": "Seats reserved successfully"})
		case "/seats/showtime/book":
			json.NewEncoder(w).Encode(map[string]interface{}{"order_id": 9, "total_price": 250.0})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	flow := booking.NewFlow(c, 7)
	ctx := context.Background()
	require.NoError(t, flow.Load(ctx))
	require.NoError(t, flow.Toggle("A1"))
	require.NoError(t, flow.Reserve(ctx))

	conf, err := flow.Book(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), conf.OrderID)
	assert.Equal(t, []string{"A1"}, conf.Seats)
	assert.Equal(t, 250.0, conf.Total)
}
