package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"interviewcards/internal/contract"
	"interviewcards/internal/generator"
)

// GenerateFlashcards asks the model for a batch of drafts and returns every
// flashcard it stored. All drafts start unapproved.
func (h *Handler) GenerateFlashcards(c echo.Context) error {
	req := new(contract.GenerateFlashcardsRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	cards, err := h.generator.Generate(c.Request().Context(), req.ThemeID, req.Level, req.Count)
	if err != nil {
		if errors.Is(err, generator.ErrThemeNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Theme not found").WithInternal(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).WithInternal(err)
	}

	return c.JSON(http.StatusOK, cards)
}
