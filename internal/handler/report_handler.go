package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking/internal/report"
	"github.com/Eursukkul/room-booking/internal/service"
)

type ReportHandler struct {
	reports service.ReportService
	loc     *time.Location
	now     func() time.Time
}

func NewReportHandler(reports service.ReportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{reports: reports, loc: loc, now: time.Now}
}

func (h *ReportHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/reports/daily.pdf", h.DailyPDF)
}

func (h *ReportHandler) DailyPDF(c echo.Context) error {
	day, err := parseDay(c, h.loc, h.now())
	if err != nil {
		return err
	}
	f, err := parseAgendaFilter(c)
	if err != nil {
		return err
	}

	agenda, err := h.reports.Daily(c.Request().Context(), day, f)
	if err != nil {
		return httpError(err)
	}

	var buf bytes.Buffer
	if err := report.RenderDailyPDF(&buf, *agenda); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, report.FileName(day)))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
