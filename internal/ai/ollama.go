package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"interviewcards/internal/db"
)

// OllamaClient talks to the native Ollama HTTP API.
type OllamaClient struct {
	baseURL      string
	model        string
	probeTimeout time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format"`
}

func NewOllamaClient(cfg OllamaConfig, logger *slog.Logger) (*OllamaClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ollama base URL %q", cfg.BaseURL)
	}

	return &OllamaClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		model:        cfg.Model,
		probeTimeout: cfg.ProbeTimeout,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logger:       logger,
	}, nil
}

// Ping checks the lightweight tags endpoint within the probe timeout.
func (c *OllamaClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("error creating probe request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error reaching ollama at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ollama probe returned status %d", resp.StatusCode)
	}

	return nil
}

func (c *OllamaClient) GenerateFlashcards(ctx context.Context, req GenerateRequest) ([]db.Flashcard, error) {
	cards, err := c.generate(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "error generating flashcards with ollama", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return cards, nil
}

func (c *OllamaClient) generate(ctx context.Context, req GenerateRequest) ([]db.Flashcard, error) {
	if strings.TrimSpace(req.Theme) == "" {
		return nil, errors.New("theme is required")
	}
	if req.Count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", req.Count)
	}

	payload, err := json.Marshal(ollamaGenerateRequest{
		Model:  c.model,
		Prompt: BuildPrompt(req),
		Stream: false,
		Format: "json",
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	c.logger.InfoContext(ctx, "calling ollama", "url", c.baseURL+"/api/generate", "model", c.model, "count", req.Count)

	// advisory only: a failed probe is logged and the generation call still goes out
	if err := c.Ping(ctx); err != nil {
		c.logger.WarnContext(ctx, "ollama health check failed", "error", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error calling ollama at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.ErrorContext(ctx, "ollama API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	c.logger.DebugContext(ctx, "ollama response", "body", string(body))

	cards, err := parseOllamaResponse(body)
	if err != nil {
		return nil, err
	}

	if len(cards) == 0 {
		c.logger.WarnContext(ctx, "no flashcards generated from ollama response")
	}

	return cards, nil
}
