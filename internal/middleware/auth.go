package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking/internal/auth"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/service"
)

const ctxUser = "user"

// UserLoader resolves the account behind a verified token. A missing account
// is reported as service.ErrUserNotFound.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// JWTAuth verifies the bearer token, loads the user and stores it in the
// context for the handlers.
func JWTAuth(issuer *auth.Issuer, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := issuer.Parse(strings.TrimSpace(raw))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			id, err := strconv.ParseUint(claims.Subject, 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			user, err := users.GetUser(c.Request().Context(), uint(id))
			if errors.Is(err, service.ErrUserNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
			}
			if err != nil {
				return err
			}

			c.Set(ctxUser, user)
			return next(c)
		}
	}
}

// RequireApprover allows only ADMIN and SCHEDULER accounts. It must run after JWTAuth.
func RequireApprover(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		if !user.CanApprove() {
			return echo.NewHTTPError(http.StatusForbidden, "approver role required")
		}
		return next(c)
	}
}

// CurrentUser returns the authenticated user, or nil outside JWTAuth.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(ctxUser).(*models.User)
	return user
}

// SetCurrentUser stores user as the authenticated actor.
func SetCurrentUser(c echo.Context, user *models.User) {
	c.Set(ctxUser, user)
}
