package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"interviewcards/internal/ai"
	"interviewcards/internal/db"
	"interviewcards/internal/generator"
	"interviewcards/internal/handler"
	"interviewcards/internal/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func newGenerationClient(ctx context.Context, cfg ai.Config, logr *slog.Logger) (ai.FlashcardGenerator, error) {
	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return ai.NewOpenAIClient(cfg.OpenAI, logr)
	case ai.ProviderGemini:
		return ai.NewGeminiClient(ctx, cfg.Gemini, logr)
	case ai.ProviderOllama:
		return ai.NewOllamaClient(cfg.Ollama, logr)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	configFilePath := "config.yml"
	configFilePathEnv := os.Getenv("CONFIG_FILE_PATH")
	if configFilePathEnv != "" {
		configFilePath = configFilePathEnv
	}

	cfg, err := LoadConfig(configFilePath)
	if err != nil {
		log.Fatalf("error reading configuration: %v", err)
	}

	logr := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logr)

	dbStorage, err := db.ConnectDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbStorage.Close()

	if err := dbStorage.UpdateSchema(); err != nil {
		log.Fatalf("Failed to update schema: %v", err)
	}

	client, err := newGenerationClient(context.Background(), cfg.Generation, logr)
	if err != nil {
		log.Fatalf("Failed to create generation client: %v", err)
	}
	logr.Info("generation client ready", "provider", cfg.Generation.Provider)

	gen := generator.NewGenerator(dbStorage, client, logr)
	h := handler.New(dbStorage, gen, logr)

	e := echo.New()

	middleware.Setup(e, logr, cfg.CORSOrigins)

	e.Validator = &CustomValidator{validator: validator.New()}

	h.RegisterRoutes(e)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		logr.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-quit
	logr.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logr.Error("failed to shut down server", "error", err)
	}

	logr.Info("server gracefully stopped")
}
