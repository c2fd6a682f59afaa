// Command create-admin provisions an administrator account directly in
// the database.  Signup over the API never grants admin, so the first
// admin has to come from here.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/cinebook/movie-ticket-booking/internal/config"
	"github.com/cinebook/movie-ticket-booking/internal/database"
	"github.com/cinebook/movie-ticket-booking/internal/model"
	"github.com/cinebook/movie-ticket-booking/internal/repository"
	"github.com/cinebook/movie-ticket-booking/internal/utils"
)

func main() {
	log.SetFlags(0)
	name := flag.String("name", "", "admin display name")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()
	if *name == "" || *email == "" || *password == "" {
		log.Fatal("usage: create-admin -name N -email E -password P")
	}

	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	hash, err := utils.HashPassword(*password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := repository.NewUserRepo(db)
	id, err := users.Create(context.Background(), model.User{
		Name:         *name,
		Email:        *email,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if err == repository.ErrEmailTaken {
		log.Fatalf("an account with email %s already exists", *email)
	}
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("admin account %d created for %s\n", id, *email)
}
