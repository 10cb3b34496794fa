package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking/internal/service"
)

// httpError maps service errors to HTTP status codes. Unknown errors are 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrSpaceNotFound),
		errors.Is(err, service.ErrSectorNotFound),
		errors.Is(err, service.ErrReservationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSpaceLocked),
		errors.Is(err, service.ErrTimeConflict),
		errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRejectionNoteRequired),
		errors.Is(err, service.ErrRejectionNoteTooLong),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrInvalidRole):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
