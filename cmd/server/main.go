package main

import (
	"log"
	"time"

	"github.com/cinebook/movie-ticket-booking/internal/config"
	"github.com/cinebook/movie-ticket-booking/internal/database"
	"github.com/cinebook/movie-ticket-booking/internal/handler"
	"github.com/cinebook/movie-ticket-booking/internal/queue"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
	"github.com/cinebook/movie-ticket-booking/internal/router"
	"github.com/cinebook/movie-ticket-booking/internal/storage"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, caching and rate limiting disabled")
	}

	var uploader *storage.Uploader
	if cfg.AWSBucket != "" {
		uploader, err = storage.NewUploader(cfg.AWSBucket)
		if err != nil {
			log.Printf("s3 uploader unavailable: %v", err)
		}
	}

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	venues := repository.NewVenueRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	seats := repository.NewSeatRepo(db)
	orders := repository.NewOrderRepo(db)

	holdTTL := time.Duration(cfg.HoldMinutes) * time.Minute
	sessionTTL := time.Duration(cfg.SessionTTLDays) * 24 * time.Hour

	e := router.New(router.Deps{
		Users:     users,
		Movies:    handler.NewMovieHandler(movies, venues, showtimes, uploader),
		Venues:    handler.NewVenueHandler(venues, movies, showtimes, seats),
		Seats:     handler.NewSeatHandler(seats, showtimes, orders, holdTTL),
		Orders:    handler.NewOrderHandler(orders),
		Auth:      handler.NewUserHandler(users, cfg.JWTSecret, sessionTTL, cfg.BcryptCost),
		JWTSecret: cfg.JWTSecret,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
	})

	go queue.StartBookingConsumer()

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
