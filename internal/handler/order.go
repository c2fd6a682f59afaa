package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cinebook/movie-ticket-booking/internal/middleware"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
)

// OrderHandler serves the booking history listing.
type OrderHandler struct {
	Orders *repository.OrderRepo
}

func NewOrderHandler(orders *repository.OrderRepo) *OrderHandler {
	if orders == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: orders}
}

// GetOrders handles GET /orders/ and returns the calling user's
// bookings, newest first.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Orders.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if orders == nil {
		orders = []repository.OrderSummary{}
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
