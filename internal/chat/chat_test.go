package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ready4uni/advisor-go/internal/agent"
	"github.com/ready4uni/advisor-go/internal/config"
	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/router"
	"github.com/ready4uni/advisor-go/internal/tools"
)

type stubLLM struct {
	classification  json.RawMessage
	classifyPrompts []string
	decisions       []*llm.ToolDecision
	completion      string
	completeErr     error
}

func (s *stubLLM) Complete(context.Context, string, llm.Options) (string, error) {
	if s.completeErr != nil {
		return "", s.completeErr
	}
	return s.completion, nil
}

func (s *stubLLM) CompleteStructured(_ context.Context, prompt string, _ *llm.Schema, _ llm.Options) (json.RawMessage, error) {
	s.classifyPrompts = append(s.classifyPrompts, prompt)
	return s.classification, nil
}

func (s *stubLLM) CompleteWithTools(context.Context, string, []llm.ToolSchema, llm.Options) (*llm.ToolDecision, error) {
	if len(s.decisions) == 0 {
		return &llm.ToolDecision{}, nil
	}
	next := s.decisions[0]
	s.decisions = s.decisions[1:]
	return next, nil
}

func (s *stubLLM) Provider() string { return "stub" }
func (s *stubLLM) Close() error     { return nil }

type stubStore struct {
	saved    []Turn
	messages []router.Message
	err      error
}

func (s *stubStore) SaveTurn(_ context.Context, turn Turn) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, turn)
	return nil
}

func (s *stubStore) RecentMessages(context.Context, string, int) ([]router.Message, error) {
	return s.messages, s.err
}

func classification(intent string) json.RawMessage {
	doc, _ := json.Marshal(map[string]any{
		"intent":             intent,
		"confidence":         0.9,
		"reasoning":          "test",
		"extracted_entities": map[string]any{},
	})
	return doc
}

func newTestService(t *testing.T, stub *stubLLM, store Store) *Service {
	t.Helper()
	log := logger.NewWithWriter("error", io.Discard)
	registry := tools.NewRegistry(log, nil)
	registry.Register(&tools.Tool{
		Name:        "get_major_suggestions",
		Description: "suggest majors",
		Parameters:  &llm.Schema{Type: "object"},
		Run: func(context.Context, tools.Args) (map[string]any, error) {
			return map[string]any{"success": true, "suggestions": []string{"Computer Science"}}, nil
		},
	})
	rt := router.New(stub, log, nil)
	orch := agent.New(stub, rt, registry, config.AgentConfig{MaxIterations: 5, MaxToolCalls: 10}, log, nil)
	return New(orch, store, log, nil)
}

func TestProcessMessageCrisis(t *testing.T) {
	stub := &stubLLM{}
	svc := newTestService(t, stub, nil)

	resp := svc.ProcessMessage(context.Background(), Request{Message: "I want to hurt myself"})

	if !resp.Success {
		t.Fatal("crisis response should be marked successful")
	}
	if resp.Message != router.CrisisResponse {
		t.Errorf("message = %q, want fixed crisis response", resp.Message)
	}
	if resp.Metadata.Intent != string(router.IntentCrisisSafety) {
		t.Errorf("intent = %q", resp.Metadata.Intent)
	}
	if resp.Suggestions != nil {
		t.Error("crisis responses must not carry suggestions")
	}
	if resp.Metadata.SessionID == "" {
		t.Error("session id should be generated")
	}
	if len(stub.classifyPrompts) != 0 {
		t.Error("crisis check must run before any LLM call")
	}
}

func TestProcessMessageCompleted(t *testing.T) {
	stub := &stubLLM{
		classification: classification("major_discovery"),
		decisions: []*llm.ToolDecision{
			{ToolCalls: []llm.ToolCall{{Name: "get_major_suggestions", Args: map[string]any{}}}},
			{},
		},
		completion: "Computer Science looks like a great fit.",
	}
	store := &stubStore{}
	svc := newTestService(t, stub, store)

	resp := svc.ProcessMessage(context.Background(), Request{
		Message:   "I like coding, what should I study?",
		SessionID: "session-1",
		UserID:    "user-1",
	})

	if !resp.Success {
		t.Fatalf("expected success: %+v", resp)
	}
	if resp.Message != "Computer Science looks like a great fit." {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.Metadata.SessionID != "session-1" {
		t.Errorf("session id = %q, want session-1", resp.Metadata.SessionID)
	}
	if resp.Metadata.Intent != "major_discovery" {
		t.Errorf("intent = %q", resp.Metadata.Intent)
	}
	if len(resp.Metadata.ToolsUsed) != 1 || resp.Metadata.ToolsUsed[0] != "get_major_suggestions" {
		t.Errorf("tools_used = %v", resp.Metadata.ToolsUsed)
	}
	if len(resp.Suggestions) != 3 || resp.Suggestions[0] != "Tell me more about one of these majors" {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}

	if len(store.saved) != 1 {
		t.Fatalf("turns saved = %d, want 1", len(store.saved))
	}
	turn := store.saved[0]
	if turn.SessionID != "session-1" || turn.UserID != "user-1" || !turn.Success {
		t.Errorf("saved turn = %+v", turn)
	}
}

func TestProcessMessageAgentError(t *testing.T) {
	stub := &stubLLM{
		classification: classification("general_question"),
		completeErr:    errors.New("provider down"),
	}
	svc := newTestService(t, stub, nil)

	resp := svc.ProcessMessage(context.Background(), Request{Message: "what is a GPA?"})

	if resp.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(resp.Message, "error") {
		t.Errorf("message = %q, want the agent's error apology", resp.Message)
	}
	if resp.Metadata.Error == "" {
		t.Error("metadata should carry the error")
	}
	if resp.Suggestions != nil {
		t.Error("error responses should not carry suggestions")
	}
}

func TestProcessMessageLoadsStoredHistory(t *testing.T) {
	stub := &stubLLM{
		classification: classification("general_question"),
		completion:     "Here you go.",
	}
	store := &stubStore{messages: []router.Message{
		{Role: "user", Content: "I mentioned Medicine earlier"},
	}}
	svc := newTestService(t, stub, store)

	svc.ProcessMessage(context.Background(), Request{Message: "what were we discussing?", SessionID: "s-1"})

	if len(stub.classifyPrompts) == 0 {
		t.Fatal("classification not invoked")
	}
	if !strings.Contains(stub.classifyPrompts[0], "I mentioned Medicine earlier") {
		t.Error("stored history not replayed into classification")
	}
}

func TestProcessMessageStoreFailureIsNonFatal(t *testing.T) {
	stub := &stubLLM{
		classification: classification("general_question"),
		completion:     "All good.",
	}
	svc := newTestService(t, stub, &stubStore{err: errors.New("disk full")})

	resp := svc.ProcessMessage(context.Background(), Request{Message: "hello world question"})
	if !resp.Success {
		t.Fatalf("store failure must not fail the turn: %+v", resp)
	}
}

func TestSuggestionsForGapAnalysis(t *testing.T) {
	gapState := &agent.State{Intent: &router.Result{Intent: router.IntentGapAnalysis}}
	gapState.ToolResults = []tools.Result{{
		Tool:    "analyze_grades",
		Success: true,
		Payload: map[string]any{"readiness": "needs_improvement", "gaps": []string{"Math"}},
	}}
	got := suggestionsFor(gapState)
	if len(got) != 3 || !strings.Contains(got[0], "resources to improve") {
		t.Errorf("gap suggestions = %v", got)
	}

	readyState := &agent.State{Intent: &router.Result{Intent: router.IntentGapAnalysis}}
	readyState.ToolResults = []tools.Result{{
		Tool:    "analyze_grades",
		Success: true,
		Payload: map[string]any{"readiness": "ready"},
	}}
	got = suggestionsFor(readyState)
	if len(got) != 3 || !strings.Contains(got[0], "universities") {
		t.Errorf("ready suggestions = %v", got)
	}
}

func TestSuggestionsForUnknownIntent(t *testing.T) {
	state := &agent.State{Intent: &router.Result{Intent: router.IntentUnknown}}
	if got := suggestionsFor(state); got != nil {
		t.Errorf("suggestions = %v, want none", got)
	}
}
