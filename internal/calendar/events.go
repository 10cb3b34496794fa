// Package calendar turns reservations into calendar feeds: FullCalendar JSON
// events for the web view and an iCalendar document for subscriptions.
package calendar

import (
	"fmt"
	"time"

	"github.com/Eursukkul/room-booking/internal/models"
)

const titleReasonLength = 25

// Event is the FullCalendar event object with the extra fields the booking
// views display.
type Event struct {
	ID      uint                     `json:"id"`
	Title   string                   `json:"title"`
	Start   time.Time                `json:"start"`
	End     time.Time                `json:"end"`
	Color   string                   `json:"color"`
	Sector  string                   `json:"sector"`
	Acronym string                   `json:"acronym"`
	Space   string                   `json:"space"`
	Reason  string                   `json:"reason"`
	User    string                   `json:"user"`
	Status  models.ReservationStatus `json:"status"`
}

func StatusColor(status models.ReservationStatus) string {
	switch status {
	case models.StatusApproved:
		return "#28a745"
	case models.StatusPending:
		return "#ffc107"
	case models.StatusRejected:
		return "#dc3545"
	case models.StatusCancelled:
		return "#6c757d"
	}
	return "#0d6efd"
}

// Title is "<acronym> – <space>" followed by the first characters of the
// reason on a second line.
func Title(r models.Reservation) string {
	var acronym, space string
	if r.Space != nil {
		space = r.Space.Name
		if r.Space.Sector != nil {
			acronym = r.Space.Sector.Acronym()
		}
	}

	title := fmt.Sprintf("%s – %s", acronym, space)
	if r.Reason == "" {
		return title
	}
	reason := []rune(r.Reason)
	if len(reason) > titleReasonLength {
		return title + "\n" + string(reason[:titleReasonLength]) + "..."
	}
	return title + "\n" + r.Reason
}

func NewEvent(r models.Reservation) Event {
	e := Event{
		ID:     r.ID,
		Title:  Title(r),
		Start:  r.StartAt,
		End:    r.EndAt,
		Color:  StatusColor(r.Status),
		Reason: r.Reason,
		Status: r.Status,
	}
	if r.Space != nil {
		e.Space = r.Space.Name
		if r.Space.Sector != nil {
			e.Sector = r.Space.Sector.Name
			e.Acronym = r.Space.Sector.Acronym()
		}
	}
	if r.User != nil {
		e.User = r.User.Name
	}
	return e
}

func NewEvents(reservations []models.Reservation) []Event {
	out := make([]Event, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, NewEvent(r))
	}
	return out
}
