package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"interviewcards/internal/ai"
	"interviewcards/internal/middleware"
)

type Config struct {
	Host        string    `yaml:"host"`
	Port        int       `yaml:"port" validate:"required,min=1,max=65535"`
	DBPath      string    `yaml:"db_path" validate:"required"`
	LogLevel    string    `yaml:"log_level" validate:"oneof=debug info warn error"`
	CORSOrigins []string  `yaml:"cors_origins" validate:"dive,url"`
	Generation  ai.Config `yaml:"generation"`
}

func defaultConfig() Config {
	return Config{
		Port:        8080,
		DBPath:      "interviewflashcards.db",
		LogLevel:    "info",
		CORSOrigins: append([]string(nil), middleware.DefaultCORSOrigins...),
	}
}

// ReadConfig decodes the YAML file at filePath over the defaults. A missing
// file is not an error.
func ReadConfig(filePath string) (*Config, error) {
	cfg := defaultConfig()

	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides config values with the environment.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}

	gen := &cfg.Generation
	if v := getenv("GENERATION_PROVIDER"); v != "" {
		gen.Provider = strings.ToLower(v)
	}
	if v := getenv("OLLAMA_BASE_URL"); v != "" {
		gen.Ollama.BaseURL = v
	}
	if v := getenv("OLLAMA_MODEL"); v != "" {
		gen.Ollama.Model = v
	}
	if v := getenv("OPENAI_API_KEY"); v != "" {
		gen.OpenAI.APIKey = v
	}
	if v := getenv("OPENAI_BASE_URL"); v != "" {
		gen.OpenAI.BaseURL = v
	}
	if v := getenv("OPENAI_MODEL"); v != "" {
		gen.OpenAI.Model = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		gen.Gemini.APIKey = v
	}
	if v := getenv("GEMINI_MODEL"); v != "" {
		gen.Gemini.Model = v
	}

	return nil
}

func ValidateConfig(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	switch cfg.Generation.Provider {
	case ai.ProviderOpenAI:
		if cfg.Generation.OpenAI.APIKey == "" {
			return errors.New("generation.openai.api_key is required for the openai provider")
		}
	case ai.ProviderGemini:
		if cfg.Generation.Gemini.APIKey == "" {
			return errors.New("generation.gemini.api_key is required for the gemini provider")
		}
	}

	return nil
}

func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ReadConfig(filePath)
	if err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}

	cfg.Generation = cfg.Generation.WithDefaults()

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
