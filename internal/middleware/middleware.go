package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"interviewcards/internal/contract"
)

var DefaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

func Setup(e *echo.Echo, logr *slog.Logger, corsOrigins []string) {
	if len(corsOrigins) == 0 {
		corsOrigins = DefaultCORSOrigins
	}

	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(logr)

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logr.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	}))
}

// ErrorHandler renders every error as contract.ErrorResponse.
func ErrorHandler(logr *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = http.StatusText(code)
			if m, ok := he.Message.(string); ok {
				message = m
			}
			if he.Internal != nil && code >= http.StatusInternalServerError {
				logr.Error("internal error", "path", c.Path(), "error", he.Internal)
			}
		} else {
			logr.Error("unhandled error", "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, contract.ErrorResponse{Error: message})
		}
		if err != nil {
			logr.Error("failed to write error response", "error", err)
		}
	}
}
