package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService scripts the API responses a flow sees.
type fakeService struct {
	layouts    []Layout // consumed in order by SeatLayout, last one repeats
	layoutIdx  int
	layoutErr  error // returned once the scripted layouts are exhausted
	reserveErr error
	bookErr    error
	bookResult BookResult

	layoutCalls  int
	reserveCalls [][]uint64
	bookCalls    [][]uint64
}

func (f *fakeService) SeatLayout(ctx context.Context, showtimeID uint64) (Layout, error) {
	f.layoutCalls++
	if f.layoutIdx >= len(f.layouts) {
		if f.layoutErr != nil {
			return Layout{}, f.layoutErr
		}
		if len(f.layouts) == 0 {
			return Layout{}, errors.New("no layout scripted")
		}
		return f.layouts[len(f.layouts)-1], nil
	}
	l := f.layouts[f.layoutIdx]
	f.layoutIdx++
	return l, nil
}

func (f *fakeService) ReserveSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64) error {
	f.reserveCalls = append(f.reserveCalls, seatIDs)
	return f.reserveErr
}

func (f *fakeService) BookSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64) (BookResult, error) {
	f.bookCalls = append(f.bookCalls, seatIDs)
	if f.bookErr != nil {
		return BookResult{}, f.bookErr
	}
	return f.bookResult, nil
}

func twoSeatLayout() Layout {
	return Layout{
		Showtime:  "19:30",
		VenueName: "Galaxy Cinema - Downtown",
		MovieName: "The Long Night",
		Seats: map[string][]Seat{
			"A": {
				{ID: 1, SeatNumber: "A1", Price: 200, Status: StatusAvailable},
				{ID: 2, SeatNumber: "A2", Price: 200, Status: StatusAvailable},
				{ID: 3, SeatNumber: "A3", Price: 200, Status: StatusBooked},
				{ID: 4, SeatNumber: "A4", Price: 200, Status: StatusReserved},
			},
		},
	}
}

func loadedFlow(t *testing.T, svc *fakeService) *Flow {
	t.Helper()
	f := NewFlow(svc, 7)
	require.NoError(t, f.Load(context.Background()))
	return f
}

func TestToggleDoubleToggleRestoresSelection(t *testing.T) {
	f := loadedFlow(t, &fakeService{layouts: []Layout{twoSeatLayout()}})

	require.NoError(t, f.Toggle("A1"))
	assert.True(t, f.IsSelected("A1"))

	require.NoError(t, f.Toggle("A1"))
	assert.False(t, f.IsSelected("A1"))
	assert.Empty(t, f.Selected())
}

func TestTotalIsSumOfSelectedPrices(t *testing.T) {
	f := loadedFlow(t, &fakeService{layouts: []Layout{twoSeatLayout()}})

	assert.Equal(t, 0.0, f.Total())

	require.NoError(t, f.Toggle("A1"))
	require.NoError(t, f.Toggle("A2"))
	assert.Equal(t, 400.0, f.Total())

	require.NoError(t, f.Toggle("A2"))
	assert.Equal(t, 200.0, f.Total())
}

func TestBookedSeatNeverSelectable(t *testing.T) {
	svc := &fakeService{layouts: []Layout{twoSeatLayout(), twoSeatLayout()}}
	f := loadedFlow(t, svc)

	assert.ErrorIs(t, f.Toggle("A3"), ErrSeatBlocked)

	// still blocked after the phase change
	require.NoError(t, f.Toggle("A1"))
	require.NoError(t, f.Reserve(context.Background()))
	assert.ErrorIs(t, f.Toggle("A3"), ErrSeatBlocked)
}

func TestReservePreservesSelectionAndEntersReserved(t *testing.T) {
	after := twoSeatLayout()
	after.Seats["A"][0].Status = StatusReserved
	after.Seats["A"][1].Status = StatusReserved
	svc := &fakeService{layouts: []Layout{twoSeatLayout(), after}}
	f := loadedFlow(t, svc)

	require.NoError(t, f.Toggle("A1"))
	require.NoError(t, f.Toggle("A2"))
	assert.Equal(t, 400.0, f.Total())

	require.NoError(t, f.Reserve(context.Background()))

	assert.Equal(t, StepReserved, f.Step())
	assert.True(t, f.IsSelected("A1"))
	assert.True(t, f.IsSelected("A2"))
	assert.Len(t, f.Selected(), 2)

	// reserve re-fetches the layout for the shared view
	assert.Equal(t, 2, svc.layoutCalls)
}

func TestReservedPhaseOnlyAllowsHeldSeats(t *testing.T) {
	after := twoSeatLayout()
	after.Seats["A"][0].Status = StatusReserved
	svc := &fakeService{layouts: []Layout{twoSeatLayout(), after}}
	f := loadedFlow(t, svc)

	require.NoError(t, f.Toggle("A1"))
	require.NoError(t, f.Reserve(context.Background()))

	// A2 stayed available, it was never part of this hold
	assert.ErrorIs(t, f.Toggle("A2"), ErrSeatBlocked)

	// the held seat can still be deselected and re-selected
	require.NoError(t, f.Toggle("A1"))
	require.NoError(t, f.Toggle("A1"))
	assert.True(t, f.IsSelected("A1"))
}

func TestReserveFailureKeepsSelectAndSelection(t *testing.T) {
	svc := &fakeService{
		layouts:    []Layout{twoSeatLayout()},
		reserveErr: errors.New("Seat A1 is already booked or reserved"),
	}
	f := loadedFlow(t, svc)

	require.NoError(t, f.Toggle("A1"))
	require.NoError(t, f.Toggle("A2"))

	err := f.Reserve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A1")

	// selection is deliberately kept, including the seat that lost the race
	assert.Equal(t, StepSelect, f.Step())
	assert.True(t, f.IsSelected("A1"))
	assert.True(t, f.IsSelected("A2"))
	// no re-fetch on failure
	assert.Equal(t, 1, svc.layoutCalls)
}

func TestReserveRefreshFailureStillHolds(t *testing.T) {
	svc := &fakeService{
		layouts:   []Layout{twoSeatLayout()},
		layoutErr: errors.New("connection reset"),
	}
	f := loadedFlow(t, svc)
	require.NoError(t, f.Toggle("A1"))

	err := f.Reserve(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLayoutRefresh)

	// the hold exists; only the follow-up fetch failed
	assert.Equal(t, StepReserved, f.Step())
	assert.True(t, f.IsSelected("A1"))
	assert.Equal(t, [][]uint64{{1}}, svc.reserveCalls)
}

func TestReserveRequiresSelection(t *testing.T) {
	f := loadedFlow(t, &fakeService{layouts: []Layout{twoSeatLayout()}})
	assert.ErrorIs(t, f.Reserve(context.Background()), ErrNoSelection)
}

func TestBookOnlyFromReserved(t *testing.T) {
	f := loadedFlow(t, &fakeService{layouts: []Layout{twoSeatLayout()}})
	require.NoError(t, f.Toggle("A1"))

	_, err := f.Book(context.Background())
	assert.ErrorIs(t, err, ErrNotReserved)
}

func TestBookConfirmationUsesPreBookSnapshot(t *testing.T) {
	after := twoSeatLayout()
	after.Seats["A"][0].Status = StatusReserved
	after.Seats["A"][1].Status = StatusReserved
	// post-reserve prices change server-side; captured prices must win
	after.Seats["A"][0].Price = 999
	after.Seats["A"][1].Price = 999
	svc := &fakeService{
		layouts:    []Layout{twoSeatLayout(), after},
		bookResult: BookResult{OrderID: 42, TotalPrice: 400},
	}
	f := loadedFlow(t, svc)

	require.NoError(t, f.Toggle("A1"))
	require.NoError(t, f.Toggle("A2"))
	require.NoError(t, f.Reserve(context.Background()))

	conf, err := f.Book(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(42), conf.OrderID)
	assert.Equal(t, []string{"A1", "A2"}, conf.Seats)
	assert.Equal(t, 400.0, conf.Total)
	assert.Equal(t, "The Long Night", conf.MovieName)
	assert.Equal(t, "Galaxy Cinema - Downtown", conf.VenueName)
	assert.Equal(t, "19:30", conf.Showtime)
	assert.Equal(t, [][]uint64{{1, 2}}, svc.bookCalls)
}

func TestBookFailureStaysReserved(t *testing.T) {
	after := twoSeatLayout()
	after.Seats["A"][0].Status = StatusReserved
	svc := &fakeService{
		layouts: []Layout{twoSeatLayout(), after},
		bookErr: errors.New("Seat A1 is not reserved or reservation expired"),
	}
	f := loadedFlow(t, svc)

	require.NoError(t, f.Toggle("A1"))
	require.NoError(t, f.Reserve(context.Background()))

	_, err := f.Book(context.Background())
	require.Error(t, err)

	// retry without re-reserving is allowed
	assert.Equal(t, StepReserved, f.Step())
	assert.True(t, f.IsSelected("A1"))
}

func TestToggleUnknownSeat(t *testing.T) {
	f := loadedFlow(t, &fakeService{layouts: []Layout{twoSeatLayout()}})
	assert.ErrorIs(t, f.Toggle("Z9"), ErrSeatUnknown)
}

func TestToggleBeforeLoad(t *testing.T) {
	f := NewFlow(&fakeService{}, 7)
	assert.ErrorIs(t, f.Toggle("A1"), ErrNoLayout)
}

func TestLayoutRowsSorted(t *testing.T) {
	l := Layout{Seats: map[string][]Seat{"C": nil, "A": nil, "B": nil}}
	assert.Equal(t, []string{"A", "B", "C"}, l.Rows())
}

func TestAisleAfterSplitsTenSeatRows(t *testing.T) {
	gaps := 0
	for i := 0; i < 10; i++ {
		if AisleAfter(i, 10) {
			gaps++
			assert.Equal(t, 4, i) // after the fifth seat
		}
	}
	assert.Equal(t, 1, gaps)

	for i := 0; i < 8; i++ {
		assert.False(t, AisleAfter(i, 8))
	}
}
