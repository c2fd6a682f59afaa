package booking

import (
	"context"
	"errors"
	"fmt"
)

// Service is the slice of the booking API the reservation flow needs.
// The HTTP client implements it; tests substitute a fake.
type Service interface {
	SeatLayout(ctx context.Context, showtimeID uint64) (Layout, error)
	ReserveSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64) error
	BookSeats(ctx context.Context, showtimeID uint64, seatIDs []uint64) (BookResult, error)
}

// BookResult is the server's response to a successful book call.
type BookResult struct {
	OrderID    uint64  `json:"order_id"`
	TotalPrice float64 `json:"total_price"`
}

// Step is the flow's phase.
type Step int

const (
	// StepSelect is the initial phase: the user composes a selection
	// from available seats.
	StepSelect Step = iota
	// StepReserved is entered after a successful reserve call: the
	// selection is held server-side and only held seats are togglable.
	StepReserved
)

var (
	ErrNoSelection = errors.New("no seats selected")
	ErrNotReserved = errors.New("seats are not reserved yet")
	ErrAlreadyHeld = errors.New("selection is already reserved")
	ErrNoLayout    = errors.New("seat layout not loaded")
	ErrSeatUnknown = errors.New("seat not in layout")
	ErrSeatBlocked = errors.New("seat cannot be selected")
	// ErrLayoutRefresh reports that the hold was placed but the
	// follow-up layout fetch failed.  The flow is in the reserved
	// phase; callers should say so instead of reporting a failed
	// reserve.
	ErrLayoutRefresh = errors.New("seats are held but the seat map refresh failed")
)

// Confirmation is the snapshot carried to the confirmation view after a
// successful booking.  It is built from the selection as it stood
// before the book call, so later layout or price changes cannot alter
// what the user is shown.
type Confirmation struct {
	OrderID   uint64
	MovieName string
	VenueName string
	Showtime  string
	Seats     []string
	Total     float64
}

// Flow is the seat-selection state machine shared by every front end.
// It is single-goroutine by design, mirroring one user driving one
// screen; callers serialize access.
type Flow struct {
	svc        Service
	showtimeID uint64

	step     Step
	layout   Layout
	loaded   bool
	selected []Seat // display order, price captured at selection time
}

// NewFlow creates a flow for one showtime in the select phase.
func NewFlow(svc Service, showtimeID uint64) *Flow {
	return &Flow{svc: svc, showtimeID: showtimeID}
}

// Load fetches the current layout.  Called on entry and again after a
// successful reserve, because other users' holds change the shared view.
func (f *Flow) Load(ctx context.Context) error {
	layout, err := f.svc.SeatLayout(ctx, f.showtimeID)
	if err != nil {
		return err
	}
	f.layout = layout
	f.loaded = true
	return nil
}

// Step returns the current phase.
func (f *Flow) Step() Step { return f.step }

// Layout returns the last loaded layout.
func (f *Flow) Layout() Layout { return f.layout }

// Selected returns the current selection in display order.
func (f *Flow) Selected() []Seat {
	out := make([]Seat, len(f.selected))
	copy(out, f.selected)
	return out
}

// Total is the sum of the selection's captured prices.  An empty
// selection totals zero.
func (f *Flow) Total() float64 {
	var sum float64
	for _, s := range f.selected {
		sum += s.Price
	}
	return sum
}

// IsSelected reports whether the seat with the given number is in the
// current selection.
func (f *Flow) IsSelected(seatNumber string) bool {
	for _, s := range f.selected {
		if s.SeatNumber == seatNumber {
			return true
		}
	}
	return false
}

// Toggle adds the seat to the selection, or removes it if already
// selected.  Eligibility depends on phase: in select, only available
// seats may be added; in reserved, only seats the server holds.  A
// booked seat is never togglable.  Toggling an already-selected seat
// always removes it, so double-toggle restores the prior selection.
func (f *Flow) Toggle(seatNumber string) error {
	if !f.loaded {
		return ErrNoLayout
	}
	for i, s := range f.selected {
		if s.SeatNumber == seatNumber {
			f.selected = append(f.selected[:i], f.selected[i+1:]...)
			return nil
		}
	}
	seat, ok := f.findSeat(seatNumber)
	if !ok {
		return ErrSeatUnknown
	}
	switch f.step {
	case StepSelect:
		if seat.Status != StatusAvailable {
			return ErrSeatBlocked
		}
	case StepReserved:
		if seat.Status != StatusReserved {
			return ErrSeatBlocked
		}
	}
	f.selected = append(f.selected, seat)
	return nil
}

func (f *Flow) findSeat(seatNumber string) (Seat, bool) {
	for _, row := range f.layout.Seats {
		for _, s := range row {
			if s.SeatNumber == seatNumber {
				return s, true
			}
		}
	}
	return Seat{}, false
}

// Reserve asks the server to hold the current selection.  On success
// the flow enters the reserved phase with the selection intact and the
// layout is re-fetched; a re-fetch failure is reported as
// ErrLayoutRefresh but does not leave the hold.  On failure the flow
// stays in select with the selection unchanged, and the caller
// surfaces the server's message.  The selection is deliberately not
// pruned on failure; the server is the authority and a retry gets an
// authoritative answer.
func (f *Flow) Reserve(ctx context.Context) error {
	if f.step == StepReserved {
		return ErrAlreadyHeld
	}
	if len(f.selected) == 0 {
		return ErrNoSelection
	}
	if err := f.svc.ReserveSeats(ctx, f.showtimeID, f.seatIDs()); err != nil {
		return err
	}
	f.step = StepReserved
	if err := f.Load(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrLayoutRefresh, err)
	}
	return nil
}

// Book confirms the held selection.  Valid only in the reserved phase.
// On success it returns a confirmation built from the pre-book
// selection snapshot; on failure the flow stays reserved and the user
// may retry without re-reserving.
func (f *Flow) Book(ctx context.Context) (Confirmation, error) {
	if f.step != StepReserved {
		return Confirmation{}, ErrNotReserved
	}
	if len(f.selected) == 0 {
		return Confirmation{}, ErrNoSelection
	}

	conf := Confirmation{
		MovieName: f.layout.MovieName,
		VenueName: f.layout.VenueName,
		Showtime:  f.layout.Showtime,
		Seats:     make([]string, len(f.selected)),
		Total:     f.Total(),
	}
	for i, s := range f.selected {
		conf.Seats[i] = s.SeatNumber
	}

	res, err := f.svc.BookSeats(ctx, f.showtimeID, f.seatIDs())
	if err != nil {
		return Confirmation{}, err
	}
	conf.OrderID = res.OrderID
	return conf, nil
}

func (f *Flow) seatIDs() []uint64 {
	ids := make([]uint64, len(f.selected))
	for i, s := range f.selected {
		ids[i] = s.ID
	}
	return ids
}
