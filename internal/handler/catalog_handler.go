package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking/internal/dto"
	"github.com/Eursukkul/room-booking/internal/middleware"
	"github.com/Eursukkul/room-booking/internal/service"
)

type CatalogHandler struct {
	catalog service.CatalogService
}

func NewCatalogHandler(catalog service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/sectors", h.ListSectors)
	api.POST("/sectors", h.CreateSector, middleware.RequireApprover)
	api.GET("/sectors/:id/spaces", h.ListSectorSpaces)

	api.GET("/spaces", h.ListSpaces)
	api.POST("/spaces", h.CreateSpace, middleware.RequireApprover)
	api.GET("/spaces/:id", h.GetSpace)
	api.POST("/spaces/:id/toggle-lock", h.ToggleLock, middleware.RequireApprover)
}

func (h *CatalogHandler) ListSectors(c echo.Context) error {
	sectors, err := h.catalog.ListSectors(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.SectorResponse, len(sectors))
	for i := range sectors {
		resp[i] = dto.ToSectorResponse(&sectors[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) CreateSector(c echo.Context) error {
	var req dto.CreateSectorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sector, err := h.catalog.CreateSector(c.Request().Context(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToSectorResponse(sector))
}

func (h *CatalogHandler) ListSectorSpaces(c echo.Context) error {
	sectorID, err := parseID(c, "id", "sector")
	if err != nil {
		return err
	}

	spaces, err := h.catalog.ListSpacesBySector(c.Request().Context(), sectorID)
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.SpaceResponse, len(spaces))
	for i := range spaces {
		resp[i] = dto.ToSpaceResponse(&spaces[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) ListSpaces(c echo.Context) error {
	spaces, err := h.catalog.ListSpaces(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	resp := make([]dto.SpaceResponse, len(spaces))
	for i := range spaces {
		resp[i] = dto.ToSpaceResponse(&spaces[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) CreateSpace(c echo.Context) error {
	var req dto.CreateSpaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SectorID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "sector_id is required")
	}

	space, err := h.catalog.CreateSpace(c.Request().Context(), middleware.CurrentUser(c), req.Name, req.SectorID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToSpaceResponse(space))
}

func (h *CatalogHandler) GetSpace(c echo.Context) error {
	id, err := parseID(c, "id", "space")
	if err != nil {
		return err
	}

	space, err := h.catalog.GetSpace(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSpaceResponse(space))
}

func (h *CatalogHandler) ToggleLock(c echo.Context) error {
	id, err := parseID(c, "id", "space")
	if err != nil {
		return err
	}

	space, err := h.catalog.ToggleLock(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dto.ToSpaceResponse(space))
}
