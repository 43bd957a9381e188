package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"interviewcards/internal/contract"
	"interviewcards/internal/db"
)

func (h *Handler) AddFlashcardRoutes(g *echo.Group) {
	g.POST("/flashcards", h.CreateFlashcard)
	g.GET("/flashcards", h.GetFlashcards)
	g.POST("/flashcards/generate", h.GenerateFlashcards)
	g.GET("/flashcards/:id", h.GetFlashcard)
	g.PUT("/flashcards/:id", h.UpdateFlashcard)
	g.POST("/flashcards/:id/approve", h.ApproveFlashcard)
	g.DELETE("/flashcards/:id", h.DeleteFlashcard)
}

func (h *Handler) CreateFlashcard(c echo.Context) error {
	req := new(contract.CreateFlashcardRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	card, err := h.db.AddManualFlashcard(req.ThemeID, req.Question, req.Answer, req.Level, req.Type)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Theme not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create flashcard").WithInternal(err)
	}

	return c.JSON(http.StatusCreated, card)
}

func (h *Handler) GetFlashcards(c echo.Context) error {
	filter, err := parseFlashcardFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cards, err := h.db.ListFlashcards(filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch flashcards").WithInternal(err)
	}

	return c.JSON(http.StatusOK, cards)
}

func parseFlashcardFilter(c echo.Context) (db.FlashcardFilter, error) {
	filter := db.FlashcardFilter{ThemeID: c.QueryParam("themeId")}

	if v := c.QueryParam("approved"); v != "" {
		approved, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("invalid approved value: %s", v)
		}
		filter.Approved = &approved
	}

	if v := c.QueryParam("source"); v != "" {
		source := db.Source(v)
		if !source.Valid() {
			return filter, fmt.Errorf("invalid source: %s", v)
		}
		filter.Source = &source
	}

	if v := c.QueryParam("level"); v != "" {
		level := db.Level(v)
		if !level.Valid() {
			return filter, fmt.Errorf("invalid level: %s", v)
		}
		filter.Level = &level
	}

	if v := c.QueryParam("type"); v != "" {
		qType := db.QuestionType(v)
		if !qType.Valid() {
			return filter, fmt.Errorf("invalid type: %s", v)
		}
		filter.Type = &qType
	}

	return filter, nil
}

func (h *Handler) GetFlashcard(c echo.Context) error {
	card, err := h.db.GetFlashcard(c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Flashcard not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch flashcard").WithInternal(err)
	}

	return c.JSON(http.StatusOK, card)
}

func (h *Handler) UpdateFlashcard(c echo.Context) error {
	cardID := c.Param("id")

	req := new(contract.UpdateFlashcardRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if req.ID != cardID {
		return echo.NewHTTPError(http.StatusBadRequest, "Flashcard ID mismatch")
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	card, err := h.db.UpdateFlashcard(cardID, db.FlashcardUpdate{
		Question: req.Question,
		Answer:   req.Answer,
		Level:    req.Level,
		Type:     req.Type,
		Approved: req.Approved,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Flashcard not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update flashcard").WithInternal(err)
	}

	return c.JSON(http.StatusOK, card)
}

func (h *Handler) ApproveFlashcard(c echo.Context) error {
	approved, err := h.db.ApproveFlashcard(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to approve flashcard").WithInternal(err)
	}

	if !approved {
		return echo.NewHTTPError(http.StatusNotFound, "Flashcard not found")
	}

	return c.JSON(http.StatusOK, contract.MessageResponse{Message: "Flashcard approved"})
}

func (h *Handler) DeleteFlashcard(c echo.Context) error {
	deleted, err := h.db.DeleteFlashcard(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete flashcard").WithInternal(err)
	}

	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Flashcard not found")
	}

	return c.JSON(http.StatusOK, contract.MessageResponse{Message: "Flashcard deleted"})
}
