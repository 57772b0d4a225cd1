package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/ready4uni/advisor-go/internal/errors"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/metrics"
)

// FallbackClient wraps a primary and a fallback Client with three-layer
// error handling:
//  1. Retry with backoff on the same provider (transient errors)
//  2. Provider fallback (quota exhaustion, exhausted retries)
//  3. ErrAllProvidersFailed when both give up
//
// fallback may be nil, in which case only retry applies.
type FallbackClient struct {
	primary  Client
	fallback Client
	retry    RetryConfig
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewFallbackClient wires the fallback chain. metrics may be nil.
func NewFallbackClient(primary, fallback Client, retry RetryConfig, log *logger.Logger, m *metrics.Metrics) *FallbackClient {
	return &FallbackClient{
		primary:  primary,
		fallback: fallback,
		retry:    retry,
		log:      log.WithModule("llm"),
		metrics:  m,
	}
}

// Provider returns the primary provider name.
func (f *FallbackClient) Provider() string {
	if f.primary == nil {
		return ""
	}
	return f.primary.Provider()
}

// Close closes both clients.
func (f *FallbackClient) Close() error {
	var errs []error
	if f.primary != nil {
		if err := f.primary.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.fallback != nil {
		if err := f.fallback.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// Complete runs a plain completion through the fallback chain.
func (f *FallbackClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	var out string
	err := f.execute(ctx, KindComplete, func(c Client) error {
		var err error
		out, err = c.Complete(ctx, prompt, opts)
		return err
	})
	return out, err
}

// CompleteStructured runs a structured completion through the fallback chain.
func (f *FallbackClient) CompleteStructured(ctx context.Context, prompt string, schema *Schema, opts Options) (json.RawMessage, error) {
	var out json.RawMessage
	err := f.execute(ctx, KindStructured, func(c Client) error {
		var err error
		out, err = c.CompleteStructured(ctx, prompt, schema, opts)
		return err
	})
	return out, err
}

// CompleteWithTools runs a tool-calling completion through the fallback chain.
func (f *FallbackClient) CompleteWithTools(ctx context.Context, prompt string, tools []ToolSchema, opts Options) (*ToolDecision, error) {
	var out *ToolDecision
	err := f.execute(ctx, KindTools, func(c Client) error {
		var err error
		out, err = c.CompleteWithTools(ctx, prompt, tools, opts)
		return err
	})
	return out, err
}

// execute tries the primary with retry, classifies the failure, and falls
// back to the secondary provider when the error warrants it.
func (f *FallbackClient) execute(ctx context.Context, kind string, call func(Client) error) error {
	if f.primary == nil {
		return fmt.Errorf("llm: %w: no provider configured", apperrors.ErrAllProvidersFailed)
	}

	start := time.Now()
	provider := f.primary.Provider()

	err := f.callWithRetry(ctx, f.primary, kind, call)
	if err == nil {
		f.record(provider, kind, "success", time.Since(start))
		return nil
	}
	f.record(provider, kind, statusLabel(err), time.Since(start))

	action := ClassifyError(err)
	f.log.Warnf("primary provider failed: provider=%s kind=%s action=%s err=%v",
		provider, kind, action, err)

	if action == ActionFail || f.fallback == nil {
		return err
	}

	fbProvider := f.fallback.Provider()
	f.log.Infof("falling back: from=%s to=%s kind=%s", provider, fbProvider, kind)

	fbStart := time.Now()
	err = f.callWithRetry(ctx, f.fallback, kind, call)
	if err == nil {
		f.record(fbProvider, kind, "success", time.Since(fbStart))
		return nil
	}
	f.record(fbProvider, kind, statusLabel(err), time.Since(fbStart))

	f.log.Errorf("all providers failed: primary=%s fallback=%s kind=%s err=%v",
		provider, fbProvider, kind, err)
	return fmt.Errorf("%w: %v", apperrors.ErrAllProvidersFailed, err)
}

func (f *FallbackClient) callWithRetry(ctx context.Context, client Client, kind string, call func(Client) error) error {
	return WithRetry(ctx, f.retry, func(attempt int, err error) {
		if f.metrics != nil {
			f.metrics.RecordLLMRetry(client.Provider())
		}
		f.log.Debugf("retrying llm call: provider=%s kind=%s attempt=%d err=%v",
			client.Provider(), kind, attempt, err)
	}, func() error {
		return call(client)
	})
}

func (f *FallbackClient) record(provider, kind, status string, d time.Duration) {
	if f.metrics == nil {
		return
	}
	f.metrics.RecordLLMRequest(provider, kind, status, d.Seconds())
}

// statusLabel maps an error to a metric status label.
func statusLabel(err error) string {
	switch ClassifyError(err) {
	case ActionFallback:
		return "quota_exhausted"
	case ActionRetry:
		return "transient_error"
	default:
		return "error"
	}
}
