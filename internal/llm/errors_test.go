package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorAction
	}{
		{"nil error", nil, ActionFail},
		{"context canceled", context.Canceled, ActionFail},
		{"context deadline", context.DeadlineExceeded, ActionRetry},
		{"quota exhausted", errors.New("quota exceeded for project"), ActionFallback},
		{"daily limit", errors.New("you have reached your daily limit"), ActionFallback},
		{"billing", errors.New("billing hard limit reached"), ActionFallback},
		{"rate limit", errors.New("429 too many requests"), ActionRetry},
		{"resource exhausted", errors.New("RESOURCE_EXHAUSTED"), ActionRetry},
		{"server error", errors.New("503 service unavailable"), ActionRetry},
		{"overloaded", errors.New("model is overloaded"), ActionRetry},
		{"connection", errors.New("connection refused"), ActionRetry},
		{"timeout text", errors.New("request timeout"), ActionRetry},
		{"bad request", errors.New("400 bad request"), ActionFail},
		{"unauthorized", errors.New("invalid api key"), ActionFail},
		{"forbidden", errors.New("403 forbidden"), ActionFail},
		{"not found", errors.New("model not found"), ActionFail},
		{"unprocessable", errors.New("422 unprocessable entity"), ActionFail},
		{"unknown defaults to retry", errors.New("something odd happened"), ActionRetry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyErrorStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorAction
	}{
		{http.StatusTooManyRequests, ActionRetry},
		{http.StatusRequestTimeout, ActionRetry},
		{http.StatusConflict, ActionRetry},
		{http.StatusInternalServerError, ActionRetry},
		{http.StatusBadGateway, ActionRetry},
		{http.StatusBadRequest, ActionFail},
		{http.StatusUnauthorized, ActionFail},
		{http.StatusForbidden, ActionFail},
		{http.StatusNotFound, ActionFail},
		{http.StatusUnprocessableEntity, ActionFail},
	}

	for _, tt := range tests {
		err := WrapError(errors.New("boom"), "gemini", tt.status)
		if got := ClassifyError(err); got != tt.want {
			t.Errorf("ClassifyError(status %d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestAPIError(t *testing.T) {
	base := errors.New("boom")
	err := WrapError(base, "groq", 500)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("WrapError did not produce *APIError")
	}
	if apiErr.Provider != "groq" {
		t.Errorf("Provider = %q, want groq", apiErr.Provider)
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error lost the original")
	}
	if apiErr.Error() != "boom (status: 500)" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
	if !apiErr.Retryable {
		t.Error("500 should be retryable")
	}

	if WrapError(nil, "groq", 500) != nil {
		t.Error("WrapError(nil) should be nil")
	}
}

func TestErrorActionString(t *testing.T) {
	if ActionRetry.String() != "retry" || ActionFallback.String() != "fallback" || ActionFail.String() != "fail" {
		t.Error("unexpected ErrorAction strings")
	}
}

func TestParseRetryAfter(t *testing.T) {
	h := http.Header{}
	if got := ParseRetryAfter(h); got != 0 {
		t.Errorf("empty headers: got %v, want 0", got)
	}

	h.Set("retry-after", "2")
	if got := ParseRetryAfter(h); got != 2*time.Second {
		t.Errorf("seconds: got %v, want 2s", got)
	}

	h.Set("retry-after-ms", "250")
	if got := ParseRetryAfter(h); got != 250*time.Millisecond {
		t.Errorf("milliseconds take priority: got %v, want 250ms", got)
	}

	h = http.Header{}
	h.Set("retry-after", "garbage")
	if got := ParseRetryAfter(h); got != 0 {
		t.Errorf("invalid value: got %v, want 0", got)
	}
}
