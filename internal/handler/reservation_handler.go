package handler

import (
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking/internal/dto"
	"github.com/Eursukkul/room-booking/internal/middleware"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/repository"
	"github.com/Eursukkul/room-booking/internal/service"
)


type ReservationHandler struct {
	svc     service.ReservationService
	catalog service.CatalogService
	audits  repository.AuditRepository
	loc     *time.Location
}

func NewReservationHandler(svc service.ReservationService, catalog service.CatalogService, audits repository.AuditRepository, loc *time.Location) *ReservationHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReservationHandler{svc: svc, catalog: catalog, audits: audits, loc: loc}
}

func (h *ReservationHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/conflicts", h.FindConflicts)

	r := api.Group("/reservations")
	r.POST("", h.CreateReservation)
	r.GET("", h.ListReservations)
	r.GET("/pending", h.ListPending, middleware.RequireApprover)
	r.GET("/pending/count", h.CountPending, middleware.RequireApprover)
	r.GET("/:id", h.GetReservation)
	r.PUT("/:id", h.UpdateReservation, middleware.RequireApprover)
	r.DELETE("/:id", h.DeleteReservation, middleware.RequireApprover)
	r.POST("/:id/approve", h.Approve, middleware.RequireApprover)
	r.POST("/:id/reject", h.Reject, middleware.RequireApprover)
	r.POST("/:id/cancel", h.Cancel)
	r.GET("/:id/conflicts", h.ConflictsFor)
	r.GET("/:id/audit", h.AuditTrail, middleware.RequireApprover)
}

func (h *ReservationHandler) bindReservation(c echo.Context) (dto.ReservationRequest, time.Time, time.Time, error) {
	var req dto.ReservationRequest
	if err := c.Bind(&req); err != nil {
		return req, time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SpaceID == 0 {
		return req, time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "space_id is required")
	}
	if utf8.RuneCountInString(req.TrimmedReason()) > models.MaxTextLength {
		return req, time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "reason is limited to 300 characters")
	}
	start, end, err := req.Window(h.loc)
	if err != nil {
		return req, time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, start, end, nil
}

func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	req, start, end, err := h.bindReservation(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	space, err := h.catalog.GetSpace(ctx, req.SpaceID)
	if err != nil {
		return httpError(err)
	}

	reservation, err := h.svc.CreateReservation(ctx, space, middleware.CurrentUser(c), start, end, req.TrimmedReason())
	if err != nil {
		return httpError(err)
	}

	reservation.Space = space
	return c.JSON(http.StatusCreated, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return err
	}
	req, start, end, err := h.bindReservation(c)
	if err != nil {
		return err
	}

	reservation, err := h.svc.UpdateReservation(c.Request().Context(), id, service.UpdateReservationInput{
		SpaceID: req.SpaceID,
		StartAt: start,
		EndAt:   end,
		Reason:  req.TrimmedReason(),
	}, middleware.CurrentUser(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return err
	}

	reservation, err := h.svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

func (h *ReservationHandler) ListReservations(c echo.Context) error {
	f, err := parseAgendaFilter(c)
	if err != nil {
		return err
	}

	reservations, err := h.svc.ListReservations(c.Request().Context(), repository.ReservationFilter{
		Statuses: f.Statuses,
		SectorID: f.SectorID,
		SpaceID:  f.SpaceID,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(reservations))
}

func (h *ReservationHandler) ListPending(c echo.Context) error {
	reservations, err := h.svc.ListReservations(c.Request().Context(), repository.ReservationFilter{
		Statuses: []models.ReservationStatus{models.StatusPending},
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(reservations))
}

func (h *ReservationHandler) CountPending(c echo.Context) error {
	n, err := h.svc.CountPending(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.CountResponse{Count: n})
}

func (h *ReservationHandler) DeleteReservation(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteReservation(c.Request().Context(), id, middleware.CurrentUser(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReservationHandler) Approve(c echo.Context) error {
	return h.setStatus(c, models.StatusApproved, nil)
}

func (h *ReservationHandler) Reject(c echo.Context) error {
	var req dto.RejectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.setStatus(c, models.StatusRejected, &req.Note)
}

func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.setStatus(c, models.StatusCancelled, nil)
}

func (h *ReservationHandler) setStatus(c echo.Context, status models.ReservationStatus, note *string) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return err
	}

	reservation, err := h.svc.SetStatus(c.Request().Context(), id, status, note, middleware.CurrentUser(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponse(reservation))
}

// FindConflicts answers the pre-submission check: what already overlaps the
// requested window, split by status.
func (h *ReservationHandler) FindConflicts(c echo.Context) error {
	spaceID, err := strconv.ParseUint(c.QueryParam("space_id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid space_id")
	}
	start, err := parseInstant(c.QueryParam("start"), h.loc)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start")
	}
	end, err := parseInstant(c.QueryParam("end"), h.loc)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end")
	}

	found, err := h.svc.FindConflicts(c.Request().Context(), uint(spaceID), start, end)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.PartitionConflicts(found))
}

// ConflictsFor lists what overlaps an existing reservation, the view an
// approver checks before accepting despite conflicts.
func (h *ReservationHandler) ConflictsFor(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return err
	}

	found, err := h.svc.FindConflictsFor(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToReservationResponses(found))
}

func (h *ReservationHandler) AuditTrail(c echo.Context) error {
	id, err := parseID(c, "id", "reservation")
	if err != nil {
		return err
	}

	entries, err := h.audits.FindByReservation(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}
