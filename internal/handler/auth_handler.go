package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking/internal/dto"
	"github.com/Eursukkul/room-booking/internal/middleware"
	"github.com/Eursukkul/room-booking/internal/models"
	"github.com/Eursukkul/room-booking/internal/service"
)

type AuthHandler struct {
	users service.UserService
}

func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// RegisterRoutes mounts login on e and the account routes on the
// authenticated api group.
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, api *echo.Group, loginLimit echo.MiddlewareFunc) {
	e.POST("/api/v1/auth/login", h.Login, loginLimit)

	api.GET("/me", h.Me)
	api.POST("/users", h.CreateUser, middleware.RequireApprover)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, tok, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: tok.Token,
		ExpiresAt:   tok.ExpiresAt,
		User:        dto.ToUserResponse(user),
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.CreateUser(c.Request().Context(), middleware.CurrentUser(c), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(strings.ToUpper(strings.TrimSpace(req.Role))),
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}
