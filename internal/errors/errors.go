// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrInvalidInput indicates user or tool input failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMajorNotFound indicates a major name did not resolve against the dataset.
	ErrMajorNotFound = errors.New("major not found")

	// ErrNoRequirements indicates a resolved major has no grade requirements.
	ErrNoRequirements = errors.New("major has no requirements")

	// ErrToolNotFound indicates a tool name is not registered.
	ErrToolNotFound = errors.New("tool not found")

	// ErrMissingParameter indicates a required tool argument is missing.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrInvalidParameter indicates a tool argument has the wrong type or value.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyResponse indicates the LLM returned no usable content.
	ErrEmptyResponse = errors.New("empty response")

	// ErrInvalidResponse indicates the LLM output did not match the expected schema.
	ErrInvalidResponse = errors.New("invalid response format")

	// ErrAllProvidersFailed indicates every configured LLM provider failed.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrContextCanceled indicates context was canceled.
	ErrContextCanceled = errors.New("context canceled")
)

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ToolError wraps a failure inside a tool body with the tool's name.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError creates a new tool execution error.
func NewToolError(tool string, err error) *ToolError {
	return &ToolError{Tool: tool, Err: err}
}
