package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ready4uni/advisor-go/internal/config"
	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/router"
	"github.com/ready4uni/advisor-go/internal/tools"
)

// scriptedLLM plays back canned classification, decision and completion
// responses in order.
type scriptedLLM struct {
	structured json.RawMessage // intent classification

	decisions    []*llm.ToolDecision
	decisionErr  error
	decisionOpts []llm.Options
	toolPrompts  []string

	completions     []string
	completeErr     error
	completeOpts    []llm.Options
	completePrompts []string
}

func (s *scriptedLLM) Complete(_ context.Context, prompt string, opts llm.Options) (string, error) {
	s.completePrompts = append(s.completePrompts, prompt)
	s.completeOpts = append(s.completeOpts, opts)
	if s.completeErr != nil {
		return "", s.completeErr
	}
	if len(s.completions) == 0 {
		return "default completion", nil
	}
	next := s.completions[0]
	s.completions = s.completions[1:]
	return next, nil
}

func (s *scriptedLLM) CompleteStructured(context.Context, string, *llm.Schema, llm.Options) (json.RawMessage, error) {
	if s.structured == nil {
		return nil, errors.New("no classification scripted")
	}
	return s.structured, nil
}

func (s *scriptedLLM) CompleteWithTools(_ context.Context, prompt string, _ []llm.ToolSchema, opts llm.Options) (*llm.ToolDecision, error) {
	s.toolPrompts = append(s.toolPrompts, prompt)
	s.decisionOpts = append(s.decisionOpts, opts)
	if s.decisionErr != nil {
		return nil, s.decisionErr
	}
	if len(s.decisions) == 0 {
		return &llm.ToolDecision{}, nil
	}
	next := s.decisions[0]
	s.decisions = s.decisions[1:]
	return next, nil
}

func (s *scriptedLLM) Provider() string { return "scripted" }
func (s *scriptedLLM) Close() error     { return nil }

func classificationDoc(intent string, confidence float64) json.RawMessage {
	doc, _ := json.Marshal(map[string]any{
		"intent":             intent,
		"confidence":         confidence,
		"reasoning":          "test",
		"extracted_entities": map[string]any{},
	})
	return doc
}

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	log := logger.NewWithWriter("error", io.Discard)
	r := tools.NewRegistry(log, nil)
	r.Register(&tools.Tool{
		Name:        "get_major_suggestions",
		Description: "suggest majors",
		Parameters:  &llm.Schema{Type: "object"},
		Run: func(_ context.Context, args tools.Args) (map[string]any, error) {
			return map[string]any{"success": true, "suggestions": []string{"Computer Science"}}, nil
		},
	})
	r.Register(&tools.Tool{
		Name:        "broken_tool",
		Description: "always fails",
		Parameters:  &llm.Schema{Type: "object"},
		Run: func(context.Context, tools.Args) (map[string]any, error) {
			return nil, errors.New("out of order")
		},
	})
	return r
}

func newTestOrchestrator(t *testing.T, stub *scriptedLLM, cfg config.AgentConfig) *Orchestrator {
	t.Helper()
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 5
	}
	if cfg.MaxToolCalls == 0 {
		cfg.MaxToolCalls = 10
	}
	log := logger.NewWithWriter("error", io.Discard)
	rt := router.New(stub, log, nil)
	return New(stub, rt, testRegistry(t), cfg, log, nil)
}

func TestRunGreeting(t *testing.T) {
	stub := &scriptedLLM{
		structured:  classificationDoc("greeting_or_chitchat", 0.95),
		completions: []string{"Hi! I'm Ready4Uni."},
	}
	o := newTestOrchestrator(t, stub, config.AgentConfig{})

	state := o.Run(context.Background(), Request{UserMessage: "hello there"})

	if state.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", state.Status)
	}
	if state.FinalResponse != "Hi! I'm Ready4Uni." {
		t.Errorf("response = %q", state.FinalResponse)
	}
	if len(state.ToolCalls) != 0 {
		t.Errorf("greeting should not call tools, got %d", len(state.ToolCalls))
	}
	if len(stub.completeOpts) != 1 || stub.completeOpts[0].Temperature != 0.8 {
		t.Errorf("greeting temperature = %v", stub.completeOpts)
	}
	if !strings.Contains(stub.completePrompts[0], "hello there") {
		t.Error("greeting prompt missing user message")
	}
}

func TestRunClarification(t *testing.T) {
	// Gap analysis without a major mentioned needs a follow-up question.
	stub := &scriptedLLM{structured: classificationDoc("gap_analysis", 0.9)}
	o := newTestOrchestrator(t, stub, config.AgentConfig{})

	state := o.Run(context.Background(), Request{UserMessage: "am I ready?"})

	if state.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", state.Status)
	}
	if !strings.Contains(state.FinalResponse, "major") {
		t.Errorf("expected clarification question, got %q", state.FinalResponse)
	}
	if len(stub.toolPrompts) != 0 {
		t.Error("clarification should skip the tool loop")
	}
	if len(stub.completePrompts) != 0 {
		t.Error("clarification should skip synthesis")
	}
}

func TestRunToolLoop(t *testing.T) {
	stub := &scriptedLLM{
		structured: classificationDoc("major_discovery", 0.9),
		decisions: []*llm.ToolDecision{
			{ToolCalls: []llm.ToolCall{{Name: "get_major_suggestions", Args: map[string]any{"interests": []any{"coding"}}}}},
			{},
		},
		completions: []string{"Computer Science fits you well."},
	}
	o := newTestOrchestrator(t, stub, config.AgentConfig{})

	state := o.Run(context.Background(), Request{UserMessage: "I like coding, what should I study?"})

	if state.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", state.Status)
	}
	if state.FinalResponse != "Computer Science fits you well." {
		t.Errorf("response = %q", state.FinalResponse)
	}
	if len(state.ToolCalls) != 1 || state.ToolCalls[0].Tool != "get_major_suggestions" {
		t.Fatalf("tool calls = %v", state.ToolCalls)
	}
	if !state.ToolCalls[0].Success {
		t.Error("tool call should have succeeded")
	}

	if len(stub.toolPrompts) != 2 {
		t.Fatalf("decision calls = %d, want 2", len(stub.toolPrompts))
	}
	if !strings.Contains(stub.toolPrompts[0], "get_major_suggestions tool") {
		t.Error("first decision prompt missing plan")
	}
	if !strings.Contains(stub.toolPrompts[1], "OK get_major_suggestions") {
		t.Error("second decision prompt missing prior tool result")
	}
	if stub.decisionOpts[0].Temperature != 0.3 {
		t.Errorf("decision temperature = %g", stub.decisionOpts[0].Temperature)
	}

	synthesis := stub.completePrompts[len(stub.completePrompts)-1]
	if !strings.Contains(synthesis, "Computer Science") || !strings.Contains(synthesis, "I like coding") {
		t.Error("synthesis prompt missing tool results or original question")
	}
	if last := stub.completeOpts[len(stub.completeOpts)-1]; last.Temperature != 0.7 {
		t.Errorf("synthesis temperature = %g", last.Temperature)
	}
}

func TestRunUnknownToolRecorded(t *testing.T) {
	stub := &scriptedLLM{
		structured: classificationDoc("general_question", 0.8),
		decisions: []*llm.ToolDecision{
			{ToolCalls: []llm.ToolCall{{Name: "no_such_tool"}}},
			{},
		},
	}
	o := newTestOrchestrator(t, stub, config.AgentConfig{})

	state := o.Run(context.Background(), Request{UserMessage: "tell me about universities"})

	if state.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed despite tool failure", state.Status)
	}
	if !state.HadErrors() {
		t.Error("failed tool should be recorded")
	}
	if len(state.ToolResults) != 1 || state.ToolResults[0].Success {
		t.Fatalf("tool results = %v", state.ToolResults)
	}
	if !strings.Contains(stub.toolPrompts[1], "FAILED no_such_tool") {
		t.Error("second decision prompt should mention the failure")
	}
}

func TestRunStopsAtMaxIterations(t *testing.T) {
	keepCalling := &llm.ToolDecision{
		ToolCalls: []llm.ToolCall{{Name: "get_major_suggestions", Args: map[string]any{}}},
	}
	stub := &scriptedLLM{
		structured: classificationDoc("major_discovery", 0.9),
		decisions: []*llm.ToolDecision{
			keepCalling, keepCalling, keepCalling, keepCalling, keepCalling,
		},
	}
	o := newTestOrchestrator(t, stub, config.AgentConfig{MaxIterations: 2, MaxToolCalls: 10})

	state := o.Run(context.Background(), Request{UserMessage: "what should I study?"})

	if len(stub.toolPrompts) != 2 {
		t.Errorf("decision calls = %d, want 2", len(stub.toolPrompts))
	}
	if len(state.ToolCalls) != 2 {
		t.Errorf("tool calls = %d, want 2", len(state.ToolCalls))
	}
	if state.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", state.Status)
	}
}

func TestRunStopsAtMaxToolCalls(t *testing.T) {
	decision := &llm.ToolDecision{
		ToolCalls: []llm.ToolCall{{Name: "get_major_suggestions", Args: map[string]any{}}},
	}
	stub := &scriptedLLM{
		structured: classificationDoc("major_discovery", 0.9),
		decisions:  []*llm.ToolDecision{decision, decision, decision},
	}
	o := newTestOrchestrator(t, stub, config.AgentConfig{MaxIterations: 5, MaxToolCalls: 1})

	state := o.Run(context.Background(), Request{UserMessage: "what should I study?"})

	if len(state.ToolCalls) != 1 {
		t.Errorf("tool calls = %d, want 1", len(state.ToolCalls))
	}
	if len(stub.toolPrompts) != 1 {
		t.Errorf("decision calls = %d, want 1", len(stub.toolPrompts))
	}
}

func TestRunSynthesisFailure(t *testing.T) {
	stub := &scriptedLLM{
		structured:  classificationDoc("general_question", 0.8),
		decisions:   []*llm.ToolDecision{{}},
		completeErr: errors.New("provider down"),
	}
	o := newTestOrchestrator(t, stub, config.AgentConfig{})

	state := o.Run(context.Background(), Request{UserMessage: "what is a GPA?"})

	if state.Status != StatusError {
		t.Fatalf("status = %s, want error", state.Status)
	}
	if state.FinalResponse != errorResponse {
		t.Errorf("response = %q", state.FinalResponse)
	}
	if state.ErrorMessage == "" {
		t.Error("error message missing")
	}
}

func TestRunUploadedFilesInDecisionPrompt(t *testing.T) {
	stub := &scriptedLLM{
		structured: classificationDoc("transcript_analysis", 0.9),
		decisions:  []*llm.ToolDecision{{}},
	}
	o := newTestOrchestrator(t, stub, config.AgentConfig{})

	o.Run(context.Background(), Request{
		UserMessage:   "analyze my grades",
		UploadedFiles: []router.UploadedFile{{Name: "transcript.pdf", Path: "uploads/transcript.pdf"}},
	})

	if len(stub.toolPrompts) == 0 {
		t.Fatal("no decision prompt captured")
	}
	if !strings.Contains(stub.toolPrompts[0], "transcript.pdf (at uploads/transcript.pdf)") {
		t.Error("decision prompt missing uploaded file listing")
	}
}

func TestStateSummary(t *testing.T) {
	state := &State{
		Intent: &router.Result{Intent: router.IntentMajorDiscovery},
		Status: StatusCompleted,
	}
	state.addToolResult(tools.Result{Tool: "get_major_suggestions", Success: true})
	state.addToolResult(tools.Result{Tool: "get_major_info", Success: false, Error: "boom"})
	state.addToolResult(tools.Result{Tool: "get_major_suggestions", Success: true})
	state.FinalResponse = "done"

	summary := state.Summary()
	if summary["intent"] != "major_discovery" {
		t.Errorf("intent = %v", summary["intent"])
	}
	if summary["num_tool_calls"] != 3 {
		t.Errorf("num_tool_calls = %v", summary["num_tool_calls"])
	}
	used := summary["tools_used"].([]string)
	if len(used) != 2 || used[0] != "get_major_suggestions" || used[1] != "get_major_info" {
		t.Errorf("tools_used = %v", used)
	}
	if summary["success"] != true || summary["had_errors"] != true {
		t.Errorf("summary = %v", summary)
	}
}
