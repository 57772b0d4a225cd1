// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, the LLM providers, the agent loop, and optional integrations.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted by LLM_PRIMARY_PROVIDER / LLM_FALLBACK_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir   string // Data directory for the SQLite session store
	UploadDir string // Directory transcript uploads are read from

	// LLM Configuration
	GeminiAPIKey        string
	GeminiModel         string
	GroqAPIKey          string
	GroqModel           string
	GroqBaseURL         string
	LLMPrimaryProvider  string // "gemini" or "groq"
	LLMFallbackProvider string // tried when the primary fails with a fallback-class error
	LLMTimeout          time.Duration
	LLMMaxRetries       int

	// Agent Configuration
	Agent AgentConfig

	// Chat rate limiting (per caller token bucket)
	ChatRateBurst  float64 // Burst capacity (default: 5)
	ChatRateRefill float64 // Tokens refilled per second (default: 0.2 = one turn per 5s)

	// Dataset holds the optional remote majors dataset source.
	Dataset DatasetConfig

	// Sentry Configuration
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64

	// Better Stack Configuration
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)
}

// AgentConfig bounds the orchestration loop.
type AgentConfig struct {
	MaxIterations int // Maximum tool-decision rounds per turn (default: 5)
	MaxToolCalls  int // Maximum tool executions per turn (default: 10)
}

// DatasetConfig configures the optional S3-compatible majors dataset source.
// When disabled the embedded dataset is used.
type DatasetConfig struct {
	Enabled         bool
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	ObjectKey       string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		DataDir:   getEnv(EnvDataDir, getDefaultDataDir()),
		UploadDir: getEnv(EnvUploadDir, "./uploads"),

		GeminiAPIKey:        getEnv(EnvGeminiAPIKey, ""),
		GeminiModel:         getEnv(EnvGeminiModel, "gemini-2.0-flash"),
		GroqAPIKey:          getEnv(EnvGroqAPIKey, ""),
		GroqModel:           getEnv(EnvGroqModel, "llama-3.3-70b-versatile"),
		GroqBaseURL:         getEnv(EnvGroqBaseURL, "https://api.groq.com/openai/v1"),
		LLMPrimaryProvider:  getEnv(EnvLLMPrimaryProvider, ProviderGemini),
		LLMFallbackProvider: getEnv(EnvLLMFallbackProvider, ProviderGroq),
		LLMTimeout:          getDurationEnv(EnvLLMTimeout, LLMRequest),
		LLMMaxRetries:       getIntEnv(EnvLLMMaxRetries, 3),

		Agent: AgentConfig{
			MaxIterations: getIntEnv(EnvAgentMaxIterations, 5),
			MaxToolCalls:  getIntEnv(EnvAgentMaxToolCalls, 10),
		},

		ChatRateBurst:  getFloatEnv(EnvChatRateBurst, 5),
		ChatRateRefill: getFloatEnv(EnvChatRateRefill, 0.2),

		Dataset: DatasetConfig{
			Enabled:         getBoolEnv(EnvDatasetEnabled, false),
			AccountID:       getEnv(EnvDatasetAccountID, ""),
			AccessKeyID:     getEnv(EnvDatasetAccessKeyID, ""),
			SecretAccessKey: getEnv(EnvDatasetSecretAccessKey, ""),
			BucketName:      getEnv(EnvDatasetBucketName, ""),
			ObjectKey:       getEnv(EnvDatasetObjectKey, "majors.json"),
		},

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:     getEnv(EnvSentryRelease, ""),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if !c.HasLLMProvider() {
		errs = append(errs, errors.New("at least one LLM provider API key is required ("+EnvGeminiAPIKey+" or "+EnvGroqAPIKey+")"))
	}
	if c.LLMPrimaryProvider != ProviderGemini && c.LLMPrimaryProvider != ProviderGroq {
		errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q", EnvLLMPrimaryProvider, ProviderGemini, ProviderGroq, c.LLMPrimaryProvider))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvLLMTimeout, c.LLMTimeout))
	}
	if c.LLMMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvLLMMaxRetries, c.LLMMaxRetries))
	}
	if c.Agent.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvAgentMaxIterations, c.Agent.MaxIterations))
	}
	if c.Agent.MaxToolCalls <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvAgentMaxToolCalls, c.Agent.MaxToolCalls))
	}
	if c.ChatRateBurst <= 0 || c.ChatRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s and %s must be positive", EnvChatRateBurst, EnvChatRateRefill))
	}
	if c.Dataset.Enabled {
		if c.Dataset.AccessKeyID == "" || c.Dataset.SecretAccessKey == "" || c.Dataset.BucketName == "" {
			errs = append(errs, errors.New("dataset source enabled but credentials or bucket missing"))
		}
	}

	return errors.Join(errs...)
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "sessions.db")
}

// HasLLMProvider returns true if at least one LLM provider is configured.
func (c *Config) HasLLMProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != ""
}
