// Package config provides centralized timeout constants for the application.
//
// These values are tuned around the chat turn budget: one turn may issue up
// to three kinds of LLM calls (classification, tool decisions, synthesis)
// plus local tool work, and the HTTP caller expects an answer within a
// reasonable interactive window.
package config

import "time"

// HTTP server timeouts
const (
	// ChatProcessing is the budget for handling one chat turn end to end,
	// including every LLM round trip and tool execution.
	ChatProcessing = 90 * time.Second

	// ServerHTTPRead is the HTTP server read timeout. Chat payloads are
	// small JSON bodies.
	ServerHTTPRead = 10 * time.Second

	// ServerHTTPWrite accommodates ChatProcessing plus response serialization.
	ServerHTTPWrite = 95 * time.Second

	// ServerHTTPIdle is the idle timeout for keep-alive connections.
	ServerHTTPIdle = 120 * time.Second
)

// LLM timeouts
const (
	// LLMRequest is the timeout for a single LLM API call. Tool-decision
	// calls are usually fast; synthesis with long tool payloads can take
	// tens of seconds on slower models.
	LLMRequest = 30 * time.Second

	// LLMRetryInitial is the base delay for retry backoff.
	// Full jitter: each attempt waits a random duration in
	// [0, LLMRetryInitial * 2^attempt], capped at LLMRetryMax.
	LLMRetryInitial = 1 * time.Second

	// LLMRetryMax caps a single backoff wait.
	LLMRetryMax = 10 * time.Second
)

// Storage timeouts
const (
	// SQLiteBusyTimeout is how long a connection waits on a locked database
	// before returning SQLITE_BUSY.
	SQLiteBusyTimeout = 5 * time.Second

	// SessionWriteTimeout bounds the best-effort persistence of a finished
	// turn. Persistence failures are logged, never surfaced.
	SessionWriteTimeout = 3 * time.Second
)
