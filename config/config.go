// Package config loads runtime configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Provider selects the chat model backend for classification, answer
// composition and planning.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds all runtime settings.
type Config struct {
	// Provider is the chat model backend: "openai" or "anthropic".
	Provider Provider
	// ChatModel overrides the backend's default model name when non-empty.
	ChatModel string

	// GeminiModel is the grounded-generation model for the document path.
	GeminiModel string
	// RAGCorpus is the full Vertex AI RAG corpus resource name. When empty
	// the document path answers without retrieval grounding.
	RAGCorpus string

	// GoogleProject and GoogleLocation select the Vertex AI backend for the
	// genai client.
	GoogleProject  string
	GoogleLocation string

	// MLBBaseURL overrides the Stats API endpoint, mainly for tests.
	MLBBaseURL string

	// EnablePlanner turns on the multi-domain route.
	EnablePlanner bool

	// Addr is the HTTP listen address for serve mode.
	Addr string

	// LogLevel is one of debug, info, warn, error. LogFormat is "text" or
	// "json".
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Config, error) {
	// Ignore a missing .env file, it is a local development convenience.
	_ = godotenv.Load()

	cfg := &Config{
		Provider:       Provider(getenv("DUGOUT_PROVIDER", string(ProviderOpenAI))),
		ChatModel:      os.Getenv("DUGOUT_CHAT_MODEL"),
		GeminiModel:    getenv("DUGOUT_GEMINI_MODEL", "gemini-2.5-flash"),
		RAGCorpus:      os.Getenv("DUGOUT_RAG_CORPUS"),
		GoogleProject:  os.Getenv("GOOGLE_CLOUD_PROJECT"),
		GoogleLocation: getenv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		MLBBaseURL:     os.Getenv("DUGOUT_MLB_BASE_URL"),
		EnablePlanner:  getbool("DUGOUT_ENABLE_PLANNER", false),
		Addr:           getenv("DUGOUT_ADDR", ":8080"),
		LogLevel:       getenv("DUGOUT_LOG_LEVEL", "info"),
		LogFormat:      getenv("DUGOUT_LOG_FORMAT", "text"),
	}

	switch cfg.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return nil, fmt.Errorf("unsupported provider %q (want openai or anthropic)", cfg.Provider)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getbool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
