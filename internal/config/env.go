// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "ADVISOR_PORT"
	EnvLogLevel        = "ADVISOR_LOG_LEVEL"
	EnvShutdownTimeout = "ADVISOR_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir   = "ADVISOR_DATA_DIR"
	EnvUploadDir = "ADVISOR_UPLOAD_DIR"

	// LLM Feature
	EnvLLMPrimaryProvider  = "ADVISOR_LLM_PRIMARY_PROVIDER"
	EnvLLMFallbackProvider = "ADVISOR_LLM_FALLBACK_PROVIDER"
	EnvGeminiAPIKey        = "ADVISOR_GEMINI_API_KEY"
	EnvGeminiModel         = "ADVISOR_GEMINI_MODEL"
	EnvGroqAPIKey          = "ADVISOR_GROQ_API_KEY"
	EnvGroqModel           = "ADVISOR_GROQ_MODEL"
	EnvGroqBaseURL         = "ADVISOR_GROQ_BASE_URL"
	EnvLLMTimeout          = "ADVISOR_LLM_TIMEOUT"
	EnvLLMMaxRetries       = "ADVISOR_LLM_MAX_RETRIES"

	// Agent
	EnvAgentMaxIterations = "ADVISOR_AGENT_MAX_ITERATIONS"
	EnvAgentMaxToolCalls  = "ADVISOR_AGENT_MAX_TOOL_CALLS"

	// Per-caller chat rate limiting
	EnvChatRateBurst  = "ADVISOR_CHAT_RATE_BURST"
	EnvChatRateRefill = "ADVISOR_CHAT_RATE_REFILL"

	// Majors Dataset Feature (remote refresh)
	EnvDatasetEnabled         = "ADVISOR_DATASET_ENABLED"
	EnvDatasetAccountID       = "ADVISOR_DATASET_ACCOUNT_ID"
	EnvDatasetAccessKeyID     = "ADVISOR_DATASET_ACCESS_KEY_ID"
	EnvDatasetSecretAccessKey = "ADVISOR_DATASET_SECRET_ACCESS_KEY"
	EnvDatasetBucketName      = "ADVISOR_DATASET_BUCKET_NAME"
	EnvDatasetObjectKey       = "ADVISOR_DATASET_OBJECT_KEY"

	// Sentry Feature
	EnvSentryDSN         = "ADVISOR_SENTRY_DSN"
	EnvSentryEnvironment = "ADVISOR_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "ADVISOR_SENTRY_RELEASE"
	EnvSentrySampleRate  = "ADVISOR_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "ADVISOR_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "ADVISOR_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "ADVISOR_METRICS_USERNAME"
	EnvMetricsPassword = "ADVISOR_METRICS_PASSWORD"
)
