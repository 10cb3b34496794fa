package calendar

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/Eursukkul/room-booking/internal/models"
)

const productID = "-//room-booking//reservations//EN"

// UID is stable per reservation so subscribers update events in place.
func UID(id uint) string {
	return fmt.Sprintf("reservation-%d@room-booking", id)
}

func icsStatus(status models.ReservationStatus) ical.ObjectStatus {
	switch status {
	case models.StatusApproved:
		return ical.ObjectStatusConfirmed
	case models.StatusPending:
		return ical.ObjectStatusTentative
	}
	return ical.ObjectStatusCancelled
}

// NewICS builds a VCALENDAR with one VEVENT per reservation.
func NewICS(name string, reservations []models.Reservation, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(name)

	for _, r := range reservations {
		e := NewEvent(r)
		ev := cal.AddEvent(UID(r.ID))
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(r.StartAt.UTC())
		ev.SetEndAt(r.EndAt.UTC())
		ev.SetSummary(fmt.Sprintf("%s – %s", e.Acronym, e.Space))
		if r.Reason != "" {
			ev.SetDescription(r.Reason)
		}
		if e.Sector != "" {
			ev.SetLocation(e.Space + ", " + e.Sector)
		}
		if !r.UpdatedAt.IsZero() {
			ev.SetModifiedAt(r.UpdatedAt.UTC())
		}
		ev.SetStatus(icsStatus(r.Status))
	}
	return cal
}

// WriteICS serializes the feed to w.
func WriteICS(w io.Writer, name string, reservations []models.Reservation, now time.Time) error {
	return NewICS(name, reservations, now).SerializeTo(w)
}
