package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewcards/internal/ai"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestReadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := ReadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "interviewflashcards.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)

	cfg.Generation = cfg.Generation.WithDefaults()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, ai.ProviderOllama, cfg.Generation.Provider)
}

func TestReadConfig_YAML(t *testing.T) {
	path := writeConfig(t, `
host: 127.0.0.1
port: 9090
db_path: /tmp/cards.db
log_level: debug
cors_origins:
  - https://cards.example.com
generation:
  provider: ollama
  ollama:
    base_url: http://ollama:11434
    model: mistral
    timeout: 2m
    probe_timeout: 1s
`)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/cards.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"https://cards.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "http://ollama:11434", cfg.Generation.Ollama.BaseURL)
	assert.Equal(t, "mistral", cfg.Generation.Ollama.Model)
	assert.Equal(t, 2*time.Minute, cfg.Generation.Ollama.Timeout)
	assert.Equal(t, time.Second, cfg.Generation.Ollama.ProbeTimeout)
}

func TestReadConfig_EmptyFile(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestReadConfig_Malformed(t *testing.T) {
	_, err := ReadConfig(writeConfig(t, "port: [not a number"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := defaultConfig()

	err := ApplyEnv(&cfg, envMap(map[string]string{
		"PORT":                "3001",
		"HOST":                "0.0.0.0",
		"DB_PATH":             ":memory:",
		"LOG_LEVEL":           "WARN",
		"CORS_ORIGINS":        "http://a.example, http://b.example,",
		"GENERATION_PROVIDER": "OpenAI",
		"OPENAI_API_KEY":      "sk-test",
		"OPENAI_BASE_URL":     "http://localhost:11434/v1",
		"OPENAI_MODEL":        "llama3.1",
		"OLLAMA_MODEL":        "qwen2",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, ai.ProviderOpenAI, cfg.Generation.Provider)
	assert.Equal(t, "sk-test", cfg.Generation.OpenAI.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.Generation.OpenAI.BaseURL)
	assert.Equal(t, "llama3.1", cfg.Generation.OpenAI.Model)
	assert.Equal(t, "qwen2", cfg.Generation.Ollama.Model)

	cfg.Generation = cfg.Generation.WithDefaults()
	assert.NoError(t, ValidateConfig(&cfg))
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	cfg := defaultConfig()
	assert.Error(t, ApplyEnv(&cfg, envMap(map[string]string{"PORT": "eighty"})))
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		cfg := defaultConfig()
		cfg.Generation = cfg.Generation.WithDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"port out of range", func(c *Config) { c.Port = 70000 }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"unknown provider", func(c *Config) { c.Generation.Provider = "claude" }},
		{"bad ollama url", func(c *Config) { c.Generation.Ollama.BaseURL = "not a url" }},
		{"bad cors origin", func(c *Config) { c.CORSOrigins = []string{"nope"} }},
		{"openai without key", func(c *Config) { c.Generation.Provider = ai.ProviderOpenAI }},
		{"gemini without key", func(c *Config) { c.Generation.Provider = ai.ProviderGemini }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			assert.Error(t, ValidateConfig(&cfg))
		})
	}

	cfg := valid()
	cfg.Generation.Provider = ai.ProviderGemini
	cfg.Generation.Gemini.APIKey = "key"
	assert.NoError(t, ValidateConfig(&cfg))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warn").String())
	assert.Equal(t, "ERROR", parseLogLevel("error").String())
	assert.Equal(t, "INFO", parseLogLevel("info").String())
	assert.Equal(t, "INFO", parseLogLevel("").String())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "port: 9000\ngeneration:\n  provider: gemini\n")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, ai.ProviderGemini, cfg.Generation.Provider)
	assert.Equal(t, "gemini-key", cfg.Generation.Gemini.APIKey)
	assert.Equal(t, ai.DefaultGeminiModel, cfg.Generation.Gemini.Model)
}
