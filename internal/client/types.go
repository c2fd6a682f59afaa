package client

// Response types for the catalog and account endpoints.  Field matching
// is case-insensitive on decode, which absorbs the capitalized keys
// some older deployments still emit.

// Movie is one catalog entry.
type Movie struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"desc"`
	Duration    string `json:"duration"`
	Poster      string `json:"poster"`
}

// MoviePage is one page of the movie catalog.  NextOffset is -1 when
// there are no further pages.
type MoviePage struct {
	Movies      []Movie `json:"movies"`
	TotalMovies int     `json:"total_movies"`
	NextOffset  int     `json:"next_offset"`
}

// Venue is a theater location.
type Venue struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// VenuePage is one page of venues.
type VenuePage struct {
	Venues     []Venue `json:"venues"`
	NextOffset int     `json:"next_offset"`
}

// MovieDetail is a movie plus the venues screening it.
type MovieDetail struct {
	Movie  Movie   `json:"movie"`
	Venues []Venue `json:"venues"`
}

// ShowTiming is one bookable showtime slot.
type ShowTiming struct {
	ID     uint64 `json:"id"`
	Timing string `json:"timing"`
}

// VenueShowtimes groups a movie's showtimes at one venue.
type VenueShowtimes struct {
	ID        uint64       `json:"id"`
	Name      string       `json:"name"`
	Location  string       `json:"location"`
	MovieName string       `json:"movie_name"`
	ShowTimes []ShowTiming `json:"show_times"`
}

// VenueShow is a showtime listed under a venue with its movie title.
type VenueShow struct {
	ID         uint64 `json:"id"`
	Timing     string `json:"timing"`
	MovieID    uint64 `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
}

// VenueDetail is a venue with its attached movies and showtimes.
type VenueDetail struct {
	Venue     Venue       `json:"venue"`
	Movies    []Movie     `json:"movies"`
	ShowTimes []VenueShow `json:"show_times"`
}

// User is the account as the API reports it.
type User struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// Order is one past booking, denormalized for display.
type Order struct {
	ID         uint64   `json:"id"`
	TotalPrice float64  `json:"total_price"`
	Seats      []string `json:"seats"`
	MovieName  string   `json:"movie_name"`
	VenueName  string   `json:"venue_name"`
	Showtime   string   `json:"showtime"`
}

// NewMovie is the body for creating a catalog entry.
type NewMovie struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Duration    string `json:"duration"`
	Poster      string `json:"poster,omitempty"`
}
