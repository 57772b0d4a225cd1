package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvGeminiAPIKey, "test-key")
	t.Setenv(EnvDataDir, t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.LLMPrimaryProvider != ProviderGemini {
		t.Errorf("LLMPrimaryProvider = %q, want gemini", cfg.LLMPrimaryProvider)
	}
	if cfg.Agent.MaxIterations != 5 {
		t.Errorf("MaxIterations = %d, want 5", cfg.Agent.MaxIterations)
	}
	if cfg.Agent.MaxToolCalls != 10 {
		t.Errorf("MaxToolCalls = %d, want 10", cfg.Agent.MaxToolCalls)
	}
	if cfg.LLMTimeout != LLMRequest {
		t.Errorf("LLMTimeout = %v, want %v", cfg.LLMTimeout, LLMRequest)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvPort, "9999")
	t.Setenv(EnvAgentMaxIterations, "3")
	t.Setenv(EnvLLMTimeout, "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.Agent.MaxIterations != 3 {
		t.Errorf("MaxIterations = %d, want 3", cfg.Agent.MaxIterations)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Errorf("LLMTimeout = %v, want 45s", cfg.LLMTimeout)
	}
}

func TestLoadRequiresLLMProvider(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())
	t.Setenv(EnvGeminiAPIKey, "")
	t.Setenv(EnvGroqAPIKey, "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded without any LLM API key")
	}
	if !strings.Contains(err.Error(), "LLM provider") {
		t.Errorf("error should mention LLM provider: %v", err)
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := &Config{
		Port:                "",
		DataDir:             "",
		LLMPrimaryProvider:  "invalid",
		LLMTimeout:          -time.Second,
		Agent:               AgentConfig{MaxIterations: 0, MaxToolCalls: 0},
		LLMFallbackProvider: ProviderGroq,
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate passed on an empty config")
	}
	for _, want := range []string{EnvPort, EnvDataDir, EnvLLMPrimaryProvider, EnvAgentMaxIterations} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestDatasetValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvDatasetEnabled, "true")

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded with dataset enabled but no credentials")
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got := cfg.SQLitePath(); !strings.HasSuffix(got, "sessions.db") {
		t.Errorf("SQLitePath = %q", got)
	}
}
