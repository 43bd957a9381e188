package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"interviewcards/internal/contract"
	"interviewcards/internal/db"
)

func (h *Handler) AddThemeRoutes(g *echo.Group) {
	g.POST("/themes", h.CreateTheme)
	g.GET("/themes", h.GetThemes)
	g.GET("/themes/:id", h.GetTheme)
	g.DELETE("/themes/:id", h.DeleteTheme)
}

func (h *Handler) CreateTheme(c echo.Context) error {
	req := new(contract.CreateThemeRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Theme name is required")
	}

	theme, err := h.db.CreateTheme(req.Name, req.Description, req.StackTechnology)
	if err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return echo.NewHTTPError(http.StatusBadRequest, "A theme with this name already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create theme").WithInternal(err)
	}

	return c.JSON(http.StatusCreated, theme)
}

func (h *Handler) GetThemes(c echo.Context) error {
	themes, err := h.db.GetThemes()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch themes").WithInternal(err)
	}

	return c.JSON(http.StatusOK, themes)
}

func (h *Handler) GetTheme(c echo.Context) error {
	theme, err := h.db.GetTheme(c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Theme not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch theme").WithInternal(err)
	}

	return c.JSON(http.StatusOK, theme)
}

func (h *Handler) DeleteTheme(c echo.Context) error {
	deleted, err := h.db.DeleteTheme(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete theme").WithInternal(err)
	}

	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Theme not found")
	}

	return c.JSON(http.StatusOK, contract.MessageResponse{Message: "Theme deleted"})
}
