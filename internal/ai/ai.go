package ai

import (
	"context"
	"errors"
	"time"

	"interviewcards/internal/db"
)

// ErrGenerationFailed wraps every failure of a generation call.
var ErrGenerationFailed = errors.New("error generating flashcards")

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultGeminiModel   = "gemini-2.0-flash"

	DefaultRequestTimeout = 5 * time.Minute
	DefaultProbeTimeout   = 5 * time.Second
)

// FlashcardGenerator asks an external model for flashcard candidates.
// Candidates carry a fresh id, source AI, approved false and no theme or
// creation time; persisting them is the caller's job.
type FlashcardGenerator interface {
	GenerateFlashcards(ctx context.Context, req GenerateRequest) ([]db.Flashcard, error)
}

// Pinger is implemented by generators that can cheaply check the service is up.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GenerateRequest struct {
	Theme string
	Stack string
	Level *db.Level
	Count int
}

type Config struct {
	Provider string       `yaml:"provider" validate:"required,oneof=ollama openai gemini"`
	Ollama   OllamaConfig `yaml:"ollama"`
	OpenAI   OpenAIConfig `yaml:"openai"`
	Gemini   GeminiConfig `yaml:"gemini"`
}

type OllamaConfig struct {
	BaseURL      string        `yaml:"base_url" validate:"omitempty,url"`
	Model        string        `yaml:"model"`
	Timeout      time.Duration `yaml:"timeout" validate:"gte=0"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" validate:"gte=0"`
}

type OpenAIConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// WithDefaults fills unset fields with the package defaults.
func (c Config) WithDefaults() Config {
	if c.Provider == "" {
		c.Provider = ProviderOllama
	}
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = DefaultOllamaBaseURL
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = DefaultOllamaModel
	}
	if c.Ollama.Timeout == 0 {
		c.Ollama.Timeout = DefaultRequestTimeout
	}
	if c.Ollama.ProbeTimeout == 0 {
		c.Ollama.ProbeTimeout = DefaultProbeTimeout
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = DefaultOpenAIModel
	}
	if c.OpenAI.Timeout == 0 {
		c.OpenAI.Timeout = DefaultRequestTimeout
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
	return c
}
