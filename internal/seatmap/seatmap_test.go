package seatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

func TestGenerateDefaultInventory(t *testing.T) {
	seats := Generate(7)
	require.Len(t, seats, 50)

	assert.Equal(t, "A1", seats[0].SeatNumber)
	assert.Equal(t, "A10", seats[9].SeatNumber)
	assert.Equal(t, "E10", seats[49].SeatNumber)
	for _, s := range seats {
		assert.Equal(t, uint64(7), s.ShowtimeID)
		assert.Equal(t, 250.0, s.Price)
		assert.Equal(t, model.SeatAvailable, s.Status)
	}
}

func TestMatrixGroupsAndDerivesFlags(t *testing.T) {
	now := time.Now()
	seats := []model.Seat{
		{ID: 1, SeatNumber: "A1", Price: 250, Status: model.SeatAvailable},
		{ID: 2, SeatNumber: "A2", Price: 250, Status: model.SeatReserved, ReservedAt: &now},
		{ID: 3, SeatNumber: "B1", Price: 300, Status: model.SeatBooked},
	}

	m := Matrix(seats)
	require.Len(t, m, 2)
	require.Len(t, m["A"], 2)

	assert.True(t, m["A"][0].IsAvailable)
	assert.False(t, m["A"][0].IsReserved)
	assert.False(t, m["A"][0].IsBooked)

	assert.True(t, m["A"][1].IsReserved)
	assert.False(t, m["A"][1].IsAvailable)

	assert.True(t, m["B"][0].IsBooked)
	assert.Equal(t, 300.0, m["B"][0].Price)
}
