// Package llm provides integration with LLM APIs (Gemini and Groq).
// It exposes one Client interface covering plain completion, schema-constrained
// structured output and tool calling, with full-jitter retry and cross-provider
// fallback underneath.
//
// Architecture:
//   - Gemini: google.golang.org/genai (official SDK)
//   - Groq: github.com/openai/openai-go/v3 (OpenAI-compatible API)
package llm

import (
	"context"
	"encoding/json"
	"time"
)

// Call kinds used for metrics labels.
const (
	KindComplete   = "complete"
	KindStructured = "structured"
	KindTools      = "tools"
)

// Options tunes a single LLM call. Zero values leave the provider default.
type Options struct {
	// SystemInstruction sets the system prompt for the call.
	SystemInstruction string

	// Temperature controls sampling randomness; 0 means provider default.
	Temperature float32

	// MaxOutputTokens caps the response length; 0 means provider default.
	MaxOutputTokens int
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolDecision is the outcome of a tool-calling completion: free text,
// zero or more tool calls, or both.
type ToolDecision struct {
	Text      string
	ToolCalls []ToolCall
}

// Schema is a minimal JSON-schema tree used both for structured output and
// for tool parameter declarations. Types are lowercase JSON Schema names
// ("object", "string", "number", "integer", "boolean", "array").
type Schema struct {
	Type        string
	Description string
	Properties  map[string]*Schema
	Items       *Schema
	Enum        []string
	Required    []string
}

// ToolSchema declares one callable tool to the model.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  *Schema
}

// Client is the LLM boundary the orchestrator and router depend on.
// Implementations are safe for concurrent use.
type Client interface {
	// Complete returns a plain-text completion.
	Complete(ctx context.Context, prompt string, opts Options) (string, error)

	// CompleteStructured returns a JSON document conforming to schema.
	// Fails with ErrInvalidResponse when the model output is not valid JSON.
	CompleteStructured(ctx context.Context, prompt string, schema *Schema, opts Options) (json.RawMessage, error)

	// CompleteWithTools lets the model request tool invocations constrained
	// to the given schemas. Zero returned tool calls is a valid outcome.
	CompleteWithTools(ctx context.Context, prompt string, tools []ToolSchema, opts Options) (*ToolDecision, error)

	// Provider returns the provider name for metrics and logs.
	Provider() string

	// Close releases resources held by the client.
	Close() error
}

// RetryConfig defines retry behavior for LLM API calls.
// Uses AWS-recommended Full Jitter exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialDelay is the base delay before first retry.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration
}

// DefaultRetryConfig is used when the caller does not tune retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
	}
}
