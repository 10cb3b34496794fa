// Command agenda prints today's reservations of one space to the terminal.
//
//	agenda              list spaces
//	agenda -space 3     today's agenda of space 3
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Eursukkul/room-booking/config"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
	"github.com/Eursukkul/room-booking/internal/service"
	"github.com/Eursukkul/room-booking/pkg/database"
)

const timeLayout = "2006-01-02 15:04"

func main() {
	var spaceID uint
	flag.UintVar(&spaceID, "space", 0, "space id (lists spaces when omitted)")
	flag.Parse()

	cfg := config.Load()
	db, err := database.Open(cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	spaceRepo := repository.NewSpaceRepository(db)
	catalog := service.NewCatalogService(repository.NewTransactor(db), repository.NewSectorRepository(db), spaceRepo)

	if spaceID == 0 {
		spaces, err := catalog.ListSpaces(ctx)
		if err != nil {
			log.Fatalf("failed to list spaces: %v", err)
		}
		printSpaces(os.Stdout, spaces)
		return
	}

	space, err := catalog.GetSpace(ctx, spaceID)
	if err != nil {
		log.Fatalf("space %d: %v", spaceID, err)
	}

	from, to := service.DayBounds(time.Now())
	list, err := repository.NewReservationRepository(db).List(ctx, repository.ReservationFilter{
		SpaceID:     &space.ID,
		StartFrom:   &from,
		StartBefore: &to,
	})
	if err != nil {
		log.Fatalf("failed to load agenda: %v", err)
	}

	fmt.Fprintf(os.Stdout, "%s (%s)\n", space.Name, from.Format("02/01/2006"))
	printAgenda(os.Stdout, list)
}

func printSpaces(w io.Writer, spaces []models.Space) {
	if len(spaces) == 0 {
		fmt.Fprintln(w, "No spaces registered.")
		return
	}
	for _, s := range spaces {
		sector := ""
		if s.Sector != nil {
			sector = s.Sector.Name
		}
		fmt.Fprintf(w, "%d - %s\t%s\n", s.ID, s.Name, sector)
	}
}

func printAgenda(w io.Writer, reservations []models.Reservation) {
	if len(reservations) == 0 {
		fmt.Fprintln(w, "No reservations today.")
		return
	}
	for _, r := range reservations {
		user := "?"
		if r.User != nil {
			user = r.User.Name
		}
		fmt.Fprintf(w, "%s - %s | %s | %s\n",
			r.StartAt.Format(timeLayout), r.EndAt.Format(timeLayout), user, r.Status)
	}
}
