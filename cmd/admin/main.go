// Command admin is the catalog management console: create movies and
// venues, attach movies to venues, schedule showtimes and set posters.
// All calls require an administrator account.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cinebook/movie-ticket-booking/internal/client"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: admin <command> [flags]

commands:
  add-movie     -title T -desc D -duration "2h 15m" [-poster URL]
  set-poster    -movie ID -url URL
  upload-poster -movie ID -file path/to/image
  add-venue     -name N -location L
  attach-movies -venue ID -movies 1,2,3
  add-timings   -venue ID -movie ID -timings "12:30,16:00,19:30"
  list-movies   [-name filter]

environment:
  BOOKING_API_URL  API base URL (default http://localhost:8080)
  BOOKING_EMAIL    admin account email
  BOOKING_PASSWORD admin account password
`)
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	base := os.Getenv("BOOKING_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	c, err := client.New(base)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	email, password := os.Getenv("BOOKING_EMAIL"), os.Getenv("BOOKING_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("BOOKING_EMAIL and BOOKING_PASSWORD must be set")
	}
	session := client.NewSession(c)
	if err := session.Login(ctx, email, password); err != nil {
		log.Fatalf("login: %v", err)
	}
	if !session.Admin() {
		log.Fatalf("%s is not an administrator account", email)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "add-movie":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		title := fs.String("title", "", "movie title")
		desc := fs.String("desc", "", "description")
		duration := fs.String("duration", "", `running time, e.g. "2h 15m"`)
		poster := fs.String("poster", "", "poster URL (optional)")
		fs.Parse(args)
		err = c.CreateMovie(ctx, client.NewMovie{Title: *title, Description: *desc, Duration: *duration, Poster: *poster})
		report(err, "movie created")

	case "set-poster":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		movie := fs.Uint64("movie", 0, "movie id")
		posterURL := fs.String("url", "", "poster URL")
		fs.Parse(args)
		err = c.SetMoviePoster(ctx, *movie, *posterURL)
		report(err, "poster updated")

	case "upload-poster":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		movie := fs.Uint64("movie", 0, "movie id")
		file := fs.String("file", "", "image file")
		fs.Parse(args)
		f, ferr := os.Open(*file)
		if ferr != nil {
			log.Fatal(ferr)
		}
		defer f.Close()
		url, uerr := c.UploadMoviePoster(ctx, *movie, filepath.Base(*file), f)
		if uerr != nil {
			log.Fatalf("upload failed: %v", uerr)
		}
		fmt.Println("poster uploaded:", url)

	case "add-venue":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "venue name")
		location := fs.String("location", "", "venue location")
		fs.Parse(args)
		err = c.CreateVenue(ctx, *name, *location)
		report(err, "venue created")

	case "attach-movies":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		venue := fs.Uint64("venue", 0, "venue id")
		movies := fs.String("movies", "", "comma-separated movie ids")
		fs.Parse(args)
		ids, perr := parseIDs(*movies)
		if perr != nil {
			log.Fatal(perr)
		}
		err = c.AttachMovies(ctx, *venue, ids)
		report(err, "movies attached")

	case "add-timings":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		venue := fs.Uint64("venue", 0, "venue id")
		movie := fs.Uint64("movie", 0, "movie id")
		timings := fs.String("timings", "", "comma-separated timings")
		fs.Parse(args)
		err = c.AddShowTimings(ctx, *venue, *movie, splitList(*timings))
		report(err, "show timings added")

	case "list-movies":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "title filter")
		fs.Parse(args)
		offset := 0
		for {
			page, perr := c.Movies(ctx, 20, offset, *name, "asc")
			if perr != nil {
				log.Fatal(perr)
			}
			for _, m := range page.Movies {
				fmt.Printf("%3d  %-40s %s\n", m.ID, m.Title, m.Duration)
			}
			if page.NextOffset < 0 {
				return
			}
			offset = page.NextOffset
		}

	default:
		usage()
	}
}

func report(err error, ok string) {
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	fmt.Println(ok)
}

func parseIDs(s string) ([]uint64, error) {
	parts := splitList(s)
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
