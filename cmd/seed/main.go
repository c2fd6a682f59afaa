// Command seed loads a small demo catalog: a few movies and venues,
// cross-attached, with showtimes and their seat inventories.  Intended
// for fresh development databases; running it twice duplicates the
// catalog rows.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/cinebook/movie-ticket-booking/internal/config"
	"github.com/cinebook/movie-ticket-booking/internal/database"
	"github.com/cinebook/movie-ticket-booking/internal/model"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
	"github.com/cinebook/movie-ticket-booking/internal/seatmap"
)

var movies = []model.Movie{
	{Title: "The Long Night", Description: "A detective chases one last case across a sleepless city.", Duration: "2h 18m"},
	{Title: "Paper Planes", Description: "Two strangers keep missing each other by minutes.", Duration: "1h 52m"},
	{Title: "Redline", Description: "An underground race with everything on the line.", Duration: "2h 5m"},
	{Title: "The Orchard", Description: "Three generations return to the family farm.", Duration: "2h 30m"},
}

var venues = []model.Venue{
	{Name: "Galaxy Cinema", Location: "Downtown"},
	{Name: "Riverside Multiplex", Location: "East Bank"},
	{Name: "Starlight Drive-In", Location: "Route 9"},
}

var timings = []string{"12:30", "16:00", "19:30", "22:15"}

func main() {
	log.SetFlags(0)
	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	movieRepo := repository.NewMovieRepo(db)
	venueRepo := repository.NewVenueRepo(db)
	showtimeRepo := repository.NewShowtimeRepo(db)
	seatRepo := repository.NewSeatRepo(db)

	movieIDs := make([]uint64, 0, len(movies))
	for _, m := range movies {
		id, err := movieRepo.Create(ctx, m)
		if err != nil {
			log.Fatalf("create movie %q: %v", m.Title, err)
		}
		movieIDs = append(movieIDs, id)
	}

	showtimes := 0
	for vi, v := range venues {
		venueID, err := venueRepo.Create(ctx, v)
		if err != nil {
			log.Fatalf("create venue %q: %v", v.Name, err)
		}
		if err := venueRepo.AttachMovies(ctx, venueID, movieIDs); err != nil {
			log.Fatalf("attach movies to %q: %v", v.Name, err)
		}
		// stagger the schedule so venues do not all mirror each other
		for mi, movieID := range movieIDs {
			timing := timings[(vi+mi)%len(timings)]
			stID, err := showtimeRepo.Create(ctx, model.Showtime{
				VenueID: venueID,
				MovieID: movieID,
				Timing:  timing,
			})
			if err != nil {
				log.Fatalf("create showtime: %v", err)
			}
			if err := seatRepo.CreateBulk(ctx, seatmap.Generate(stID)); err != nil {
				log.Fatalf("generate seats: %v", err)
			}
			showtimes++
		}
	}

	fmt.Printf("seeded %d movies, %d venues, %d showtimes\n", len(movies), len(venues), showtimes)
}
