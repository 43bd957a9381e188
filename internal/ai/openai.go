package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"interviewcards/internal/db"
)

// OpenAIClient generates flashcards through a chat completion on any
// OpenAI-compatible endpoint, Ollama's /v1 included.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

func NewOpenAIClient(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)

	return &OpenAIClient{
		client: &client,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

func (c *OpenAIClient) GenerateFlashcards(ctx context.Context, req GenerateRequest) ([]db.Flashcard, error) {
	cards, err := c.generate(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "error generating flashcards with openai", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return cards, nil
}

func (c *OpenAIClient) generate(ctx context.Context, req GenerateRequest) ([]db.Flashcard, error) {
	if strings.TrimSpace(req.Theme) == "" {
		return nil, errors.New("theme is required")
	}
	if req.Count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", req.Count)
	}

	c.logger.InfoContext(ctx, "calling openai chat completion", "model", c.model, "count", req.Count)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(BuildPrompt(req)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error calling chat completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no content found in response")
	}

	content := completion.Choices[0].Message.Content
	c.logger.DebugContext(ctx, "openai response", "content", content)

	return ParseFlashcards(content)
}
