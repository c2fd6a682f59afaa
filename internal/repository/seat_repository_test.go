package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinebook/movie-ticket-booking/internal/model"
)

var seatColumns = []string{"id", "showtime_id", "seat_number", "price", "status", "reserved_by", "reserved_at", "created_at"}

func newSeatMock(t *testing.T) (*SeatRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSeatRepo(db), mock
}

func TestExpireHoldsReleasesOnlyStaleReservations(t *testing.T) {
	repo, mock := newSeatMock(t)
	cutoff := time.Now().Add(-10 * time.Minute)

	mock.ExpectExec(`UPDATE seats SET status = \?, reserved_by = NULL, reserved_at = NULL`).
		WithArgs(model.SeatAvailable, uint64(7), model.SeatReserved, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpireHolds(context.Background(), 7, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockForUpdateMissingSeat(t *testing.T) {
	repo, mock := newSeatMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM seats WHERE showtime_id = \? AND id IN \(\?, \?\) FOR UPDATE`).
		WithArgs(uint64(7), uint64(1), uint64(99)).
		WillReturnRows(sqlmock.NewRows(seatColumns).
			AddRow(1, 7, "A1", 250.0, model.SeatAvailable, nil, nil, time.Now()))

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)

	_, err = repo.LockForUpdateTx(context.Background(), tx, 7, []uint64{1, 99})
	assert.ErrorIs(t, err, ErrSeatNotFound)
}

func TestLockForUpdateReturnsSeats(t *testing.T) {
	repo, mock := newSeatMock(t)
	reservedAt := time.Now().Add(-2 * time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FOR UPDATE`).
		WithArgs(uint64(7), uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows(seatColumns).
			AddRow(1, 7, "A1", 250.0, model.SeatAvailable, nil, nil, time.Now()).
			AddRow(2, 7, "A2", 250.0, model.SeatReserved, uint64(5), reservedAt, time.Now()))

	tx, err := repo.DB().BeginTx(context.Background(), nil)
	require.NoError(t, err)

	seats, err := repo.LockForUpdateTx(context.Background(), tx, 7, []uint64{1, 2})
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, model.SeatAvailable, seats[0].Status)
	assert.Equal(t, model.SeatReserved, seats[1].Status)
	require.NotNil(t, seats[1].ReservedBy)
	assert.Equal(t, uint64(5), *seats[1].ReservedBy)
}

func TestReserveThenBookTransitions(t *testing.T) {
	repo, mock := newSeatMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE seats SET status = \?, reserved_by = \?, reserved_at = \?`).
		WithArgs(model.SeatReserved, uint64(5), now, uint64(1), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE seats SET status = \?, reserved_by = NULL, reserved_at = NULL`).
		WithArgs(model.SeatBooked, uint64(1), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := repo.DB().BeginTx(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, repo.ReserveTx(ctx, tx, []uint64{1, 2}, 5, now))
	require.NoError(t, repo.BookTx(ctx, tx, []uint64{1, 2}))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBulkBatchesOneInsert(t *testing.T) {
	repo, mock := newSeatMock(t)

	mock.ExpectExec(`INSERT INTO seats \(showtime_id, seat_number, price, status\) VALUES \(\?, \?, \?, \?\),\(\?, \?, \?, \?\)`).
		WithArgs(
			uint64(7), "A1", 250.0, model.SeatAvailable,
			uint64(7), "A2", 250.0, model.SeatAvailable,
		).
		WillReturnResult(sqlmock.NewResult(1, 2))

	err := repo.CreateBulk(context.Background(), []model.Seat{
		{ShowtimeID: 7, SeatNumber: "A1", Price: 250, Status: model.SeatAvailable},
		{ShowtimeID: 7, SeatNumber: "A2", Price: 250, Status: model.SeatAvailable},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByShowtimeScansNullableHold(t *testing.T) {
	repo, mock := newSeatMock(t)
	reservedAt := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM seats WHERE showtime_id = \? ORDER BY id`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(seatColumns).
			AddRow(1, 7, "A1", 250.0, model.SeatAvailable, nil, nil, time.Now()).
			AddRow(2, 7, "A2", 250.0, model.SeatReserved, uint64(5), reservedAt, time.Now()))

	seats, err := repo.ListByShowtime(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Nil(t, seats[0].ReservedBy)
	require.NotNil(t, seats[1].ReservedAt)
}
