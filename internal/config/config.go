package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	KBPath  string
	APIPort string
	DBPath  string

	LogLevel  slog.Level
	LogFormat string

	LLMBaseURL   string
	LLMAPIKey    string
	LLMModelName string

	EmbeddingBackend   string // "tfidf" or "openai"
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingDim       int

	VectorBackend    string // "memory" or "qdrant"
	QdrantURL        string
	QdrantCollection string

	ConfidenceThreshold float32
	DefaultTopK         int
	MaxTopK             int
	HistoryWindow       int

	RateLimit       int
	RateLimitWindow time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it is
// loaded automatically; environment variables already set take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up toward the project root looking for a .env file
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		KBPath:             getEnv("KB_PATH", "./data/knowledge_base.json"),
		APIPort:            getEnv("API_PORT", "9000"),
		DBPath:             getEnv("DB_PATH", "./data/interactions.db"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMAPIKey:          os.Getenv("LLM_API_KEY"),
		LLMModelName:       getEnv("LLM_MODEL", "gemini-2.5-flash-lite"),
		EmbeddingBackend:   getEnv("EMBEDDING_BACKEND", "tfidf"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", ""),
		VectorBackend:      getEnv("VECTOR_BACKEND", "memory"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "kb_articles"),
		RateLimitWindow:    time.Minute,
	}

	cfg.LogLevel = parseLogLevel(getEnv("LOG_LEVEL", "info"))

	var parseErr error
	cfg.EmbeddingDim = getEnvInt("EMBEDDING_DIM", 0, &parseErr)
	cfg.DefaultTopK = getEnvInt("DEFAULT_TOP_K", 4, &parseErr)
	cfg.MaxTopK = getEnvInt("MAX_TOP_K", 8, &parseErr)
	cfg.HistoryWindow = getEnvInt("HISTORY_WINDOW", 12, &parseErr)
	cfg.RateLimit = getEnvInt("RATE_LIMIT", 10, &parseErr)
	if parseErr != nil {
		return nil, parseErr
	}

	threshold, err := getEnvFloat("CONFIDENCE_THRESHOLD", 0.20)
	if err != nil {
		return nil, err
	}
	cfg.ConfidenceThreshold = float32(threshold)

	// Validate required fields and value ranges
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	if cfg.DefaultTopK < 1 {
		return nil, fmt.Errorf("DEFAULT_TOP_K must be at least 1")
	}
	if cfg.MaxTopK < cfg.DefaultTopK {
		return nil, fmt.Errorf("MAX_TOP_K must be >= DEFAULT_TOP_K")
	}
	if cfg.HistoryWindow < 0 {
		return nil, fmt.Errorf("HISTORY_WINDOW must not be negative")
	}
	switch cfg.EmbeddingBackend {
	case "tfidf":
	case "openai":
		if cfg.EmbeddingBaseURL == "" {
			return nil, fmt.Errorf("EMBEDDING_BASE_URL is required when EMBEDDING_BACKEND=openai")
		}
		if cfg.EmbeddingDim <= 0 {
			return nil, fmt.Errorf("EMBEDDING_DIM must be greater than 0 when EMBEDDING_BACKEND=openai")
		}
	default:
		return nil, fmt.Errorf("EMBEDDING_BACKEND must be \"tfidf\" or \"openai\", got %q", cfg.EmbeddingBackend)
	}
	switch cfg.VectorBackend {
	case "memory", "qdrant":
	default:
		return nil, fmt.Errorf("VECTOR_BACKEND must be \"memory\" or \"qdrant\", got %q", cfg.VectorBackend)
	}

	// Create the data directory if it doesn't exist (for the interaction log DB)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable. The first parse error wins.
func getEnvInt(key string, defaultValue int, errOut *error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		if *errOut == nil {
			*errOut = fmt.Errorf("%s must be a valid integer: %w", key, err)
		}
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return f, nil
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
