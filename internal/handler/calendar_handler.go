package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking/internal/calendar"
	"github.com/Eursukkul/room-booking/internal/dto"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
	"github.com/Eursukkul/room-booking/internal/service"
)

// CalendarHandler serves the read-only views: FullCalendar events, the
// iCalendar feed and the daily dashboard.
type CalendarHandler struct {
	reservations service.ReservationService
	reports      service.ReportService
	loc          *time.Location
	now          func() time.Time
}

func NewCalendarHandler(reservations service.ReservationService, reports service.ReportService, loc *time.Location) *CalendarHandler {
	if loc == nil {
		loc = time.Local
	}
	return &CalendarHandler{reservations: reservations, reports: reports, loc: loc, now: time.Now}
}

func (h *CalendarHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/calendar", h.Events)
	api.GET("/calendar.ics", h.ICS)
	api.GET("/dashboard", h.Dashboard)
}

func (h *CalendarHandler) list(c echo.Context) ([]models.Reservation, error) {
	f, err := parseAgendaFilter(c)
	if err != nil {
		return nil, err
	}
	reservations, err := h.reservations.ListReservations(c.Request().Context(), repository.ReservationFilter{
		Statuses: f.Statuses,
		SectorID: f.SectorID,
		SpaceID:  f.SpaceID,
	})
	if err != nil {
		return nil, httpError(err)
	}
	return reservations, nil
}

func (h *CalendarHandler) Events(c echo.Context) error {
	reservations, err := h.list(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, calendar.NewEvents(reservations))
}

func (h *CalendarHandler) ICS(c echo.Context) error {
	reservations, err := h.list(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := calendar.WriteICS(&buf, "Room reservations", reservations, h.now()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="reservations.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (h *CalendarHandler) Dashboard(c echo.Context) error {
	day, err := parseDay(c, h.loc, h.now())
	if err != nil {
		return err
	}
	f, err := parseAgendaFilter(c)
	if err != nil {
		return err
	}

	reservations, err := h.reports.Dashboard(c.Request().Context(), day, f)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.DashboardResponse{
		Date:         day.Format("2006-01-02"),
		Reservations: dto.ToReservationResponses(reservations),
	})
}
