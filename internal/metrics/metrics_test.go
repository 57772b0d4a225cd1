package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	if m == nil {
		t.Fatal("New() returned nil")
	}

	if m.ChatRequestsTotal == nil {
		t.Error("ChatRequestsTotal is nil")
	}
	if m.ChatDurationSeconds == nil {
		t.Error("ChatDurationSeconds is nil")
	}
	if m.CrisisTriggersTotal == nil {
		t.Error("CrisisTriggersTotal is nil")
	}
	if m.LLMRequestsTotal == nil {
		t.Error("LLMRequestsTotal is nil")
	}
	if m.ToolExecutionsTotal == nil {
		t.Error("ToolExecutionsTotal is nil")
	}
	if m.AgentIterationsPerRun == nil {
		t.Error("AgentIterationsPerRun is nil")
	}
	if m.HTTPErrorsTotal == nil {
		t.Error("HTTPErrorsTotal is nil")
	}
}

func TestRecordMethods(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	// Should not panic
	m.RecordChat("major_discovery", "success", 1.2)
	m.RecordChat("gap_analysis", "error", 0.4)
	m.RecordCrisisTrigger()
	m.RecordLLMRequest("gemini", "structured", "success", 0.8)
	m.RecordLLMRetry("groq")
	m.RecordToolExecution("analyze_grades", "success", 0.002)
	m.RecordAgentIterations(2)
	m.RecordHTTPError("bad_request", "/api/chat")

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("no metric families gathered")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	New(registry)

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	New(registry)
}
