package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"pandey.app/outreach/core/db"
)

type Config struct {
	OTel         OTelConfig
	OpenRouter   OpenRouterConfig
	Storage      StorageConfig
	Cache        CacheConfig
	Env          string
	Port         string
	APIKey       string
	UserIDHeader string
	DB           db.Config
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

// OpenRouterConfig configures the OpenAI-compatible generation service.
type OpenRouterConfig struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float64
	MaxTokens        int
	Timeout          time.Duration
	MaxRetries       int
	RPS              float64 // outbound requests per second, 0 = unlimited
	StructuredOutput bool    // send a json_schema response format (not every model supports it)
}

type StorageConfig struct {
	DataDir string
}

type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// Load loads configuration from environment variables.
// In development, it loads .env.server and falls back to .env.
func Load() (Config, error) {
	if getEnv("OUTREACH_ENV", "development") == "development" {
		if err := godotenv.Load(".env.server"); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:          getEnv("OUTREACH_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		APIKey:       getEnv("API_KEY", ""),
		UserIDHeader: getEnv("USER_ID_HEADER", "X-User-ID"),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 2),
		},
		Storage: StorageConfig{
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Cache: CacheConfig{
			RedisURL: getEnv("REDIS_URL", ""),
			TTL:      getEnvDuration("STRATEGY_CACHE_TTL", 24*time.Hour),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "outreach"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		OpenRouter: OpenRouterConfig{
			APIKey:           getEnv("OPENROUTER_API_KEY", ""),
			BaseURL:          getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:            getEnv("OPENROUTER_MODEL", "mistralai/mixtral-8x7b-instruct"),
			Temperature:      getEnvFloat("OPENROUTER_TEMPERATURE", 0.3),
			MaxTokens:        getEnvInt("OPENROUTER_MAX_TOKENS", 2000),
			Timeout:          getEnvDuration("OPENROUTER_TIMEOUT", 30*time.Second),
			MaxRetries:       getEnvInt("OPENROUTER_MAX_RETRIES", 3),
			RPS:              getEnvFloat("OPENROUTER_RPS", 0),
			StructuredOutput: getEnvBool("OPENROUTER_STRUCTURED_OUTPUT", false),
		},
	}

	if cfg.OpenRouter.APIKey == "" {
		return Config{}, fmt.Errorf("OPENROUTER_API_KEY is required")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c CacheConfig) Enabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
