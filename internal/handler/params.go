package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/service"
)

func parseID(c echo.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+label+" id")
	}
	return uint(id), nil
}

func parseOptionalID(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	v := uint(id)
	return &v, nil
}

// parseAgendaFilter reads repeated status plus sector_id and space_id.
func parseAgendaFilter(c echo.Context) (service.AgendaFilter, error) {
	var f service.AgendaFilter
	for _, s := range c.QueryParams()["status"] {
		if s == "" {
			continue
		}
		st := models.ReservationStatus(s)
		if !st.Valid() {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid status "+s)
		}
		f.Statuses = append(f.Statuses, st)
	}

	var err error
	if f.SectorID, err = parseOptionalID(c, "sector_id"); err != nil {
		return f, err
	}
	if f.SpaceID, err = parseOptionalID(c, "space_id"); err != nil {
		return f, err
	}
	return f, nil
}

// parseDay reads ?date=YYYY-MM-DD in loc, defaulting to today.
func parseDay(c echo.Context, loc *time.Location, now time.Time) (time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		return now.In(loc), nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	return day, nil
}

// parseInstant accepts RFC 3339 or a local "YYYY-MM-DDTHH:MM".
func parseInstant(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", raw, loc)
}
