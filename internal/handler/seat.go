package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cinebook/movie-ticket-booking/internal/middleware"
	"github.com/cinebook/movie-ticket-booking/internal/model"
	"github.com/cinebook/movie-ticket-booking/internal/queue"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
	"github.com/cinebook/movie-ticket-booking/internal/seatmap"
)

// SeatHandler drives the server side of the two-phase reservation
// protocol: layout reads, the reserve transition and the book
// transition.  Both transitions run inside one transaction under FOR
// UPDATE row locks, and both start by releasing expired holds so a
// stale hold can neither block another user nor pass a check.  The
// client never mutates seat state directly; it only requests these
// transitions and re-reads the layout afterwards.
type SeatHandler struct {
	Seats     *repository.SeatRepo
	Showtimes *repository.ShowtimeRepo
	Orders    *repository.OrderRepo
	HoldTTL   time.Duration
	// PublishEvent is called after a booking commits.  Swappable for tests;
	// defaults to the RabbitMQ publisher.
	PublishEvent func(context.Context, queue.BookingConfirmedEvent) error
}

// NewSeatHandler constructs a SeatHandler.  holdTTL is the reservation
// window after which a hold silently returns to available.
func NewSeatHandler(seats *repository.SeatRepo, showtimes *repository.ShowtimeRepo, orders *repository.OrderRepo, holdTTL time.Duration) *SeatHandler {
	if seats == nil || showtimes == nil || orders == nil {
		panic("nil repository passed to NewSeatHandler")
	}
	if holdTTL <= 0 {
		holdTTL = 10 * time.Minute
	}
	return &SeatHandler{
		Seats:        seats,
		Showtimes:    showtimes,
		Orders:       orders,
		HoldTTL:      holdTTL,
		PublishEvent: queue.PublishBookingConfirmed,
	}
}

// GetSeatLayout handles GET /seats/showtime/:id.  Expired holds are
// released first so the snapshot reflects true availability, then the
// flat seat list is grouped into the row matrix with the display names
// the selection screens show.
func (h *SeatHandler) GetSeatLayout(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()

	detail, err := h.Showtimes.GetDetail(ctx, id)
	if err == repository.ErrShowtimeNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ShowTime not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if _, err := h.Seats.ExpireHolds(ctx, id, time.Now().UTC().Add(-h.HoldTTL)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.Seats.ListByShowtime(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"showtime":   detail.Showtime.Timing,
		"venue":      detail.Showtime.VenueID,
		"venue_name": detail.VenueName + " - " + detail.VenueLocation,
		"movie_name": detail.MovieTitle,
		"seats":      seatmap.Matrix(seats),
	})
}

// SeatActionRequest is the body of both reserve and book calls.
type SeatActionRequest struct {
	ShowID  uint64   `json:"show_id"`
	SeatIDs []uint64 `json:"seat_ids"`
}

func bindSeatAction(c echo.Context) (SeatActionRequest, bool, error) {
	var body SeatActionRequest
	if err := c.Bind(&body); err != nil {
		return body, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}
	if body.ShowID == 0 || len(body.SeatIDs) == 0 {
		return body, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id and seat_ids are required"})
	}
	if hasDuplicates(body.SeatIDs) {
		return body, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "Duplicate seat IDs found"})
	}
	return body, true, nil
}

// ReserveSeats handles POST /seats/showtime/reserve.  All requested
// seats must be available; any conflict rolls the whole request back
// with 409 so the hold is all-or-nothing.
func (h *SeatHandler) ReserveSeats(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	body, ok, err := bindSeatAction(c)
	if !ok {
		return err
	}

	ctx := c.Request().Context()
	tx, err := h.Seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if _, err := h.Seats.ExpireHoldsTx(ctx, tx, body.ShowID, now.Add(-h.HoldTTL)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
	}
	seats, err := h.Seats.LockForUpdateTx(ctx, tx, body.ShowID, body.SeatIDs)
	if err != nil {
		if err == repository.ErrSeatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seat availability"})
	}
	for _, s := range seats {
		if s.Status != model.SeatAvailable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Seat " + s.SeatNumber + " is already booked or reserved"})
		}
	}
	if err := h.Seats.ReserveTx(ctx, tx, body.SeatIDs, user.ID, now); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to reserve seat"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	minutes := int(h.HoldTTL / time.Minute)
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Seats reserved successfully",
		"expires_in": minutes,
	})
}

// BookSeats handles POST /seats/showtime/book.  Valid only for seats
// the calling user holds; creates the order, marks the seats booked
// (terminal) and publishes the confirmation event after commit.
func (h *SeatHandler) BookSeats(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	body, ok, err := bindSeatAction(c)
	if !ok {
		return err
	}

	ctx := c.Request().Context()
	tx, err := h.Seats.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if _, err := h.Seats.ExpireHoldsTx(ctx, tx, body.ShowID, now.Add(-h.HoldTTL)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cleanup expired holds"})
	}
	seats, err := h.Seats.LockForUpdateTx(ctx, tx, body.ShowID, body.SeatIDs)
	if err != nil {
		if err == repository.ErrSeatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check seat availability"})
	}

	var total float64
	seatNumbers := make([]string, 0, len(seats))
	for _, s := range seats {
		if s.Status != model.SeatReserved {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Seat " + s.SeatNumber + " is not reserved or reservation expired"})
		}
		if s.ReservedBy == nil || *s.ReservedBy != user.ID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "You can only book seats you reserved"})
		}
		total += s.Price
		seatNumbers = append(seatNumbers, s.SeatNumber)
	}

	orderID, err := h.Orders.CreateTx(ctx, tx, model.Order{
		UserID:     user.ID,
		ShowtimeID: body.ShowID,
		TotalPrice: total,
	}, body.SeatIDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create order"})
	}
	if err := h.Seats.BookTx(ctx, tx, body.SeatIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to book seat"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Best effort: the booking already committed, so a broker failure is
	// logged by the publisher and otherwise ignored.
	if h.PublishEvent != nil {
		ev := queue.BookingConfirmedEvent{
			EventID:     uuid.NewString(),
			OrderID:     orderID,
			UserID:      user.ID,
			ShowtimeID:  body.ShowID,
			Seats:       seatNumbers,
			TotalPrice:  total,
			ConfirmedAt: now.Format(time.RFC3339),
		}
		if detail, derr := h.Showtimes.GetDetail(ctx, body.ShowID); derr == nil {
			ev.MovieName = detail.MovieTitle
			ev.VenueName = detail.VenueName + " - " + detail.VenueLocation
			ev.Showtime = detail.Showtime.Timing
		}
		go func() {
			if err := h.PublishEvent(context.Background(), ev); err != nil {
				log.Printf("booking event publish failed for order %d: %v", orderID, err)
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Seats booked successfully",
		"order_id":    orderID,
		"total_price": total,
	})
}
