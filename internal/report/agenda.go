// Package report renders the printable daily agenda.
package report

import (
	"time"

	"github.com/Eursukkul/room-booking/internal/models"
)

// SectorGroup is one sector's block in the daily agenda. Reservations are
// expected with Space and User preloaded.
type SectorGroup struct {
	SectorID     uint
	Sector       string
	Reservations []models.Reservation
}

// DailyAgenda is the day's non-cancelled reservations grouped by sector,
// together with a human readable description of the filters that produced it.
type DailyAgenda struct {
	Day     time.Time
	Filters []string
	Groups  []SectorGroup
}

func (a DailyAgenda) Empty() bool {
	for _, g := range a.Groups {
		if len(g.Reservations) > 0 {
			return false
		}
	}
	return true
}

func (a DailyAgenda) Count() int {
	n := 0
	for _, g := range a.Groups {
		n += len(g.Reservations)
	}
	return n
}

// FileName is the archive name of the agenda, daily-YYYY-MM-DD.pdf.
func FileName(day time.Time) string {
	return "daily-" + day.Format("2006-01-02") + ".pdf"
}
