// Package config loads runtime settings from the environment. A .env file
// in the working directory is read first when present; real environment
// variables always win.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/infrascope/infrascope/internal/analyzer/providers"
)

const (
	defaultProbeTimeout   = 3 * time.Second
	defaultAnalyzeTimeout = 60 * time.Second
)

// Config is the full runtime configuration.
type Config struct {
	OllamaBaseURL  string
	OllamaModel    string
	GeminiAPIKey   string
	GeminiModel    string
	ProbeTimeout   time.Duration
	AnalyzeTimeout time.Duration
	LogLevel       string
	LogFormat      string
	LogFile        string
}

// Load reads configuration from .env and the process environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded settings from .env file")
	}

	return Config{
		OllamaBaseURL:  envOrDefault("OLLAMA_BASE_URL", providers.DefaultOllamaBaseURL),
		OllamaModel:    envOrDefault("OLLAMA_MODEL", "llama3.2"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    envOrDefault("GEMINI_MODEL", providers.DefaultGeminiModel),
		ProbeTimeout:   envSeconds("PROBE_TIMEOUT_SECONDS", defaultProbeTimeout),
		AnalyzeTimeout: envSeconds("ANALYZE_TIMEOUT_SECONDS", defaultAnalyzeTimeout),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		LogFormat:      os.Getenv("LOG_FORMAT"),
		LogFile:        os.Getenv("LOG_FILE"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid timeout value; using default")
		return fallback
	}
	return time.Duration(n) * time.Second
}
