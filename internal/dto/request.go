package dto

import (
	"errors"
	"strings"
	"time"
)

var ErrMissingWindow = errors.New("either date/start/end or start_at/end_at is required")

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type CreateSectorRequest struct {
	Name string `json:"name"`
}

type CreateSpaceRequest struct {
	Name     string `json:"name"`
	SectorID uint   `json:"sector_id"`
}

// ReservationRequest creates or edits a reservation. The window is given
// either as a local date with HH:MM start and end, or as RFC 3339 instants.
type ReservationRequest struct {
	SpaceID uint       `json:"space_id"`
	Date    string     `json:"date"`
	Start   string     `json:"start"`
	End     string     `json:"end"`
	StartAt *time.Time `json:"start_at"`
	EndAt   *time.Time `json:"end_at"`
	Reason  string     `json:"reason"`
}

// Window resolves the requested interval. Date and clock times are read in loc.
func (r ReservationRequest) Window(loc *time.Location) (time.Time, time.Time, error) {
	if r.StartAt != nil && r.EndAt != nil {
		return *r.StartAt, *r.EndAt, nil
	}
	if r.Date == "" || r.Start == "" || r.End == "" {
		return time.Time{}, time.Time{}, ErrMissingWindow
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func (r ReservationRequest) TrimmedReason() string {
	return strings.TrimSpace(r.Reason)
}

type RejectRequest struct {
	Note string `json:"note"`
}
