package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"interviewcards/internal/db"
)

type GeminiClient struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

var flashcardsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
			"answer":   {Type: genai.TypeString},
			"level": {
				Type: genai.TypeString,
				Enum: []string{"Junior", "Mid", "Senior"},
			},
			"type": {
				Type: genai.TypeString,
				Enum: []string{"Conceptual", "Practical", "SystemDesign", "Tricky"},
			},
		},
		Required: []string{"question", "answer", "level", "type"},
	},
}

func (c *GeminiClient) GenerateFlashcards(ctx context.Context, req GenerateRequest) ([]db.Flashcard, error) {
	cards, err := c.generate(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "error generating flashcards with gemini", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return cards, nil
}

func (c *GeminiClient) generate(ctx context.Context, req GenerateRequest) ([]db.Flashcard, error) {
	if strings.TrimSpace(req.Theme) == "" {
		return nil, errors.New("theme is required")
	}
	if req.Count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", req.Count)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
		ResponseSchema:   flashcardsSchema,
	}

	c.logger.InfoContext(ctx, "calling gemini", "model", c.model, "count", req.Count)

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(BuildPrompt(req)), config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text := result.Text()
	c.logger.DebugContext(ctx, "gemini response", "content", text)

	return ParseFlashcards(text)
}
