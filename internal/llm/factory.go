package llm

import (
	"context"
	"fmt"

	"github.com/ready4uni/advisor-go/internal/config"
	apperrors "github.com/ready4uni/advisor-go/internal/errors"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/metrics"
)

// NewFromConfig builds the full fallback chain from configuration.
// The primary provider comes from LLMPrimaryProvider; the other provider
// becomes the fallback when its API key is configured.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*FallbackClient, error) {
	if !cfg.HasLLMProvider() {
		return nil, fmt.Errorf("llm: %w: no provider API key configured", apperrors.ErrInvalidInput)
	}

	build := func(provider string) (Client, error) {
		switch provider {
		case config.ProviderGemini:
			if cfg.GeminiAPIKey == "" {
				return nil, nil
			}
			return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		case config.ProviderGroq:
			if cfg.GroqAPIKey == "" {
				return nil, nil
			}
			return NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqBaseURL)
		default:
			return nil, fmt.Errorf("llm: %w: unknown provider %q", apperrors.ErrInvalidInput, provider)
		}
	}

	primary, err := build(cfg.LLMPrimaryProvider)
	if err != nil {
		return nil, err
	}
	if primary == nil {
		// Primary has no key; promote the other provider.
		other := config.ProviderGroq
		if cfg.LLMPrimaryProvider == config.ProviderGroq {
			other = config.ProviderGemini
		}
		primary, err = build(other)
		if err != nil {
			return nil, err
		}
		log.Warnf("primary llm provider %s has no API key, using %s", cfg.LLMPrimaryProvider, primary.Provider())
	}

	var fallback Client
	if cfg.LLMFallbackProvider != "" && cfg.LLMFallbackProvider != primary.Provider() {
		fallback, err = build(cfg.LLMFallbackProvider)
		if err != nil {
			return nil, err
		}
	}

	retry := DefaultRetryConfig()
	if cfg.LLMMaxRetries > 0 {
		retry.MaxAttempts = cfg.LLMMaxRetries
	}
	retry.InitialDelay = config.LLMRetryInitial
	retry.MaxDelay = config.LLMRetryMax

	return NewFallbackClient(primary, fallback, retry, log, m), nil
}
