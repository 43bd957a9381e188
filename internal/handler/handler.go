package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"interviewcards/internal/ai"
	"interviewcards/internal/contract"
	"interviewcards/internal/db"
	"interviewcards/internal/generator"
)

const healthProbeTimeout = 3 * time.Second

type Handler struct {
	db        *db.Storage
	generator *generator.Generator
	logger    *slog.Logger
}

func New(db *db.Storage, generator *generator.Generator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:        db,
		generator: generator,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api")

	h.AddThemeRoutes(api)
	h.AddFlashcardRoutes(api)
}

// Health reports the service as up as long as the database answers; the
// generation service state is informational.
func (h *Handler) Health(c echo.Context) error {
	if err := h.db.Ping(); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Database unavailable").WithInternal(err)
	}

	version, err := h.db.SchemaVersion()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read schema version").WithInternal(err)
	}

	resp := contract.HealthResponse{
		Status:     "ok",
		Generation: "unknown",
		Schema:     version,
	}

	if pinger, ok := h.generator.Client().(ai.Pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthProbeTimeout)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "generation service unavailable", "error", err)
			resp.Generation = "unavailable"
		} else {
			resp.Generation = "ok"
		}
	}

	return c.JSON(http.StatusOK, resp)
}
