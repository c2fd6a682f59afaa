// Command boxoffice is the customer terminal for browsing the catalog
// and booking seats.  It drives the shared reservation flow; all seat
// state authority stays with the server.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cinebook/movie-ticket-booking/internal/booking"
	"github.com/cinebook/movie-ticket-booking/internal/client"
)

const pageSize = 5

type app struct {
	in      *bufio.Scanner
	session *client.Session
}

func main() {
	base := os.Getenv("BOOKING_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	c, err := client.New(base)
	if err != nil {
		log.Fatal(err)
	}

	a := &app{in: bufio.NewScanner(os.Stdin), session: client.NewSession(c)}
	if tok := os.Getenv("BOOKING_TOKEN"); tok != "" {
		if a.session.Restore(context.Background(), tok) {
			u, _ := a.session.User()
			fmt.Printf("Welcome back, %s\n", u.Name)
		}
	}
	a.run()
}

func (a *app) run() {
	ctx := context.Background()
	for {
		fmt.Println("\n1) Browse movies  2) Login  3) Sign up  4) My orders  5) Logout  q) Quit")
		switch a.prompt("> ") {
		case "1":
			a.browseMovies(ctx)
		case "2":
			a.login(ctx)
		case "3":
			a.signup(ctx)
		case "4":
			a.showOrders(ctx)
		case "5":
			if err := a.session.Logout(ctx); err != nil {
				fmt.Println("logout:", err)
			} else {
				fmt.Println("Logged out")
			}
		case "q", "Q":
			return
		}
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.in.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) promptUint(label string) (uint64, bool) {
	n, err := strconv.ParseUint(a.prompt(label), 10, 64)
	return n, err == nil
}

func (a *app) login(ctx context.Context) {
	email := a.prompt("email: ")
	pass := a.prompt("password: ")
	if err := a.session.Login(ctx, email, pass); err != nil {
		fmt.Println("login failed:", err)
		return
	}
	u, _ := a.session.User()
	fmt.Printf("Logged in as %s\n", u.Name)
}

func (a *app) signup(ctx context.Context) {
	name := a.prompt("name: ")
	email := a.prompt("email: ")
	pass := a.prompt("password: ")
	if err := a.session.Signup(ctx, name, email, pass); err != nil {
		fmt.Println("signup failed:", err)
		return
	}
	fmt.Println("Account created, you are logged in")
}

func (a *app) showOrders(ctx context.Context) {
	if !a.session.LoggedIn() {
		fmt.Println("Log in first")
		return
	}
	orders, err := a.session.Client().Orders(ctx)
	if err != nil {
		fmt.Println("orders:", err)
		return
	}
	if len(orders) == 0 {
		fmt.Println("No bookings yet")
		return
	}
	for _, o := range orders {
		fmt.Printf("#%d  %s at %s, %s  seats %s  %.2f\n",
			o.ID, o.MovieName, o.VenueName, o.Showtime, strings.Join(o.Seats, ","), o.TotalPrice)
	}
}

// browseMovies pages the catalog until the user picks a movie or the
// server reports the last page with the -1 sentinel.
func (a *app) browseMovies(ctx context.Context) {
	name := a.prompt("search title (empty for all): ")
	offset := 0
	for {
		page, err := a.session.Client().Movies(ctx, pageSize, offset, name, "asc")
		if err != nil {
			fmt.Println("movies:", err)
			return
		}
		for _, m := range page.Movies {
			fmt.Printf("%3d  %-40s %s\n", m.ID, m.Title, m.Duration)
		}
		if len(page.Movies) == 0 {
			fmt.Println("No movies found")
			return
		}
		label := "movie id to open, n) next page, b) back: "
		if page.NextOffset < 0 {
			label = "movie id to open, b) back: "
		}
		switch s := a.prompt(label); s {
		case "n":
			if page.NextOffset < 0 {
				fmt.Println("Last page")
				continue
			}
			offset = page.NextOffset
		case "b":
			return
		default:
			id, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				continue
			}
			a.openMovie(ctx, id)
			return
		}
	}
}

func (a *app) openMovie(ctx context.Context, movieID uint64) {
	venues, err := a.session.Client().VenuesForMovie(ctx, movieID)
	if err != nil {
		fmt.Println("showtimes:", err)
		return
	}
	if len(venues) == 0 {
		fmt.Println("No showtimes scheduled")
		return
	}
	for _, v := range venues {
		fmt.Printf("%s (%s)\n", v.Name, v.Location)
		for _, st := range v.ShowTimes {
			fmt.Printf("   [%d] %s\n", st.ID, st.Timing)
		}
	}
	id, ok := a.promptUint("showtime id: ")
	if !ok {
		return
	}
	a.bookSeats(ctx, id)
}

// bookSeats runs the two-phase reservation flow for one showtime.
func (a *app) bookSeats(ctx context.Context, showtimeID uint64) {
	if !a.session.LoggedIn() {
		fmt.Println("Log in before booking")
		return
	}
	flow := booking.NewFlow(a.session.Client(), showtimeID)
	if err := flow.Load(ctx); err != nil {
		fmt.Println("layout:", err)
		return
	}

	for {
		renderLayout(flow)
		fmt.Printf("Selected: %s  total %.2f\n", seatNumbers(flow.Selected()), flow.Total())
		verb := "reserve"
		if flow.Step() == booking.StepReserved {
			verb = "book"
		}
		switch s := a.prompt("seat number to toggle, c) " + verb + ", b) back: "); s {
		case "b":
			return
		case "c":
			if flow.Step() == booking.StepSelect {
				if err := flow.Reserve(ctx); err != nil {
					if errors.Is(err, booking.ErrLayoutRefresh) {
						fmt.Println("Seats held for 10 minutes, but the seat map could not be refreshed:", err)
						continue
					}
					fmt.Println("reserve failed:", err)
					continue
				}
				fmt.Println("Seats held for 10 minutes, confirm to book")
				continue
			}
			conf, err := flow.Book(ctx)
			if err != nil {
				fmt.Println("booking failed:", err)
				continue
			}
			printConfirmation(conf)
			return
		default:
			if err := flow.Toggle(strings.ToUpper(s)); err != nil {
				fmt.Println(err)
			}
		}
	}
}

func renderLayout(flow *booking.Flow) {
	l := flow.Layout()
	fmt.Printf("\n%s at %s, %s\n", l.MovieName, l.VenueName, l.Showtime)
	for _, row := range l.Rows() {
		seats := l.Seats[row]
		fmt.Printf("%s  ", row)
		for i, s := range seats {
			fmt.Print(seatCell(s, flow.IsSelected(s.SeatNumber)))
			if booking.AisleAfter(i, len(seats)) {
				fmt.Print("   ")
			}
		}
		fmt.Println()
	}
	fmt.Println("    [ ] available  [x] taken  [*] selected")
}

func seatCell(s booking.Seat, selected bool) string {
	switch {
	case selected:
		return " [*]"
	case s.Status == booking.StatusAvailable:
		return " [ ]"
	default:
		return " [x]"
	}
}

func seatNumbers(seats []booking.Seat) string {
	if len(seats) == 0 {
		return "none"
	}
	nums := make([]string, len(seats))
	for i, s := range seats {
		nums[i] = s.SeatNumber
	}
	return strings.Join(nums, ",")
}

func printConfirmation(conf booking.Confirmation) {
	fmt.Println("\nBooking confirmed!")
	fmt.Printf("Order #%d\n", conf.OrderID)
	fmt.Printf("%s at %s, %s\n", conf.MovieName, conf.VenueName, conf.Showtime)
	fmt.Printf("Seats %s  total %.2f\n", strings.Join(conf.Seats, ","), conf.Total)
}
