package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/movie-ticket-booking/internal/model"
	"github.com/cinebook/movie-ticket-booking/internal/queue"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
)

var seatCols = []string{"id", "showtime_id", "seat_number", "price", "status", "reserved_by", "reserved_at", "created_at"}

func newSeatHandler(t *testing.T) (*SeatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewSeatHandler(
		repository.NewSeatRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewOrderRepo(db),
		10*time.Minute,
	)
	h.PublishEvent = func(context.Context, queue.BookingConfirmedEvent) error { return nil }
	return h, mock
}

func postJSON(t *testing.T, body string, user *model.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", *user)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestReserveRequiresAuth(t *testing.T) {
	h, _ := newSeatHandler(t)
	c, rec := postJSON(t, `{"show_id":7,"seat_ids":[1]}`, nil)

	require.NoError(t, h.ReserveSeats(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReserveRejectsDuplicateSeatIDs(t *testing.T) {
	h, _ := newSeatHandler(t)
	user := model.User{ID: 5}
	c, rec := postJSON(t, `{"show_id":7,"seat_ids":[1,1]}`, &user)

	require.NoError(t, h.ReserveSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Duplicate seat IDs found", decodeBody(t, rec)["error"])
}

func TestReserveConflictRollsBack(t *testing.T) {
	h, mock := newSeatHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats SET status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(1, 7, "A1", 250.0, model.SeatReserved, uint64(9), time.Now(), time.Now()))
	mock.ExpectRollback()

	user := model.User{ID: 5}
	c, rec := postJSON(t, `{"show_id":7,"seat_ids":[1]}`, &user)

	require.NoError(t, h.ReserveSeats(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Seat A1 is already booked or reserved", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveSuccess(t *testing.T) {
	h, mock := newSeatHandler(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats SET status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(1, 7, "A1", 250.0, model.SeatAvailable, nil, nil, time.Now()).
			AddRow(2, 7, "A2", 250.0, model.SeatAvailable, nil, nil, time.Now()))
	mock.ExpectExec(`UPDATE seats SET status = \?, reserved_by = \?, reserved_at = \?`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	user := model.User{ID: 5}
	c, rec := postJSON(t, `{"show_id":7,"seat_ids":[1,2]}`, &user)

	require.NoError(t, h.ReserveSeats(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Seats reserved successfully", body["message"])
	assert.Equal(t, 10.0, body["expires_in"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRejectsForeignHold(t *testing.T) {
	h, mock := newSeatHandler(t)
	other := uint64(9)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats SET status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(1, 7, "A1", 250.0, model.SeatReserved, other, time.Now(), time.Now()))
	mock.ExpectRollback()

	user := model.User{ID: 5}
	c, rec := postJSON(t, `{"show_id":7,"seat_ids":[1]}`, &user)

	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only book seats you reserved", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookRejectsExpiredHold(t *testing.T) {
	h, mock := newSeatHandler(t)

	// the expiry sweep already flipped the seat back to available
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats SET status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(1, 7, "A1", 250.0, model.SeatAvailable, nil, nil, time.Now()))
	mock.ExpectRollback()

	user := model.User{ID: 5}
	c, rec := postJSON(t, `{"show_id":7,"seat_ids":[1]}`, &user)

	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Seat A1 is not reserved or reservation expired", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookSuccessCreatesOrder(t *testing.T) {
	h, mock := newSeatHandler(t)
	published := make(chan queue.BookingConfirmedEvent, 1)
	h.PublishEvent = func(_ context.Context, ev queue.BookingConfirmedEvent) error {
		published <- ev
		return nil
	}

	held := time.Now().Add(-time.Minute)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats SET status = \?`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(seatCols).
			AddRow(1, 7, "A1", 250.0, model.SeatReserved, uint64(5), held, time.Now()).
			AddRow(2, 7, "A2", 300.0, model.SeatReserved, uint64(5), held, time.Now()))
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(uint64(5), uint64(7), 550.0).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`INSERT INTO order_seats`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE seats SET status = \?, reserved_by = NULL`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT st.id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "venue_id", "movie_id", "timing", "created_at", "title", "name", "location"}).
			AddRow(7, 2, 3, "19:30", time.Now(), "The Long Night", "Galaxy Cinema", "Downtown"))

	user := model.User{ID: 5}
	c, rec := postJSON(t, `{"show_id":7,"seat_ids":[1,2]}`, &user)

	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, 42.0, body["order_id"])
	assert.Equal(t, 550.0, body["total_price"])

	select {
	case ev := <-published:
		assert.Equal(t, uint64(42), ev.OrderID)
		assert.Equal(t, []string{"A1", "A2"}, ev.Seats)
		assert.Equal(t, 550.0, ev.TotalPrice)
		assert.NotEmpty(t, ev.EventID)
	case <-time.After(2 * time.Second):
		t.Fatal("booking event was not published")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
