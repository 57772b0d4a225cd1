package resources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
)

// stubLLM returns scripted responses for the resource service.
type stubLLM struct {
	structured json.RawMessage
	text       string
	err        error
	lastPrompt string
	lastOpts   llm.Options
}

func (s *stubLLM) Complete(_ context.Context, prompt string, opts llm.Options) (string, error) {
	s.lastPrompt, s.lastOpts = prompt, opts
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubLLM) CompleteStructured(_ context.Context, prompt string, _ *llm.Schema, opts llm.Options) (json.RawMessage, error) {
	s.lastPrompt, s.lastOpts = prompt, opts
	if s.err != nil {
		return nil, s.err
	}
	return s.structured, nil
}

func (s *stubLLM) CompleteWithTools(context.Context, string, []llm.ToolSchema, llm.Options) (*llm.ToolDecision, error) {
	return nil, errors.New("not used")
}

func (s *stubLLM) Provider() string { return "stub" }
func (s *stubLLM) Close() error     { return nil }

func newTestService(stub *stubLLM) *Service {
	return NewService(stub, logger.NewWithWriter("error", io.Discard))
}

func TestLevelForGrade(t *testing.T) {
	tests := []struct {
		grade float64
		want  string
	}{
		{5, LevelBeginner},
		{9.9, LevelBeginner},
		{10, LevelIntermediate},
		{13.5, LevelIntermediate},
		{14, LevelAdvanced},
		{20, LevelAdvanced},
	}
	for _, tt := range tests {
		if got := LevelForGrade(tt.grade); got != tt.want {
			t.Errorf("LevelForGrade(%g) = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestRecommendParsesResources(t *testing.T) {
	stub := &stubLLM{structured: json.RawMessage(`{
		"subject": "Math",
		"resources": [
			{"type": "video_course", "name": "Khan Academy: Cálculo", "provider": "Khan Academy",
			 "language": "PT", "free": true, "description": "Interactive lessons", "search_hint": "pt.khanacademy.org"},
			{"type": "online_course", "name": "Incomplete", "provider": "", "language": "EN",
			 "free": true, "description": "missing provider", "search_hint": "x"}
		]
	}`)}
	svc := newTestService(stub)

	got := svc.Recommend(context.Background(), "Math", "Calculus", "", "improve from 13 to 16")
	if len(got) != 1 {
		t.Fatalf("len(resources) = %d, want 1 (incomplete entry dropped)", len(got))
	}
	if got[0].Provider != "Khan Academy" {
		t.Errorf("provider = %q", got[0].Provider)
	}
	if stub.lastOpts.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", stub.lastOpts.Temperature)
	}
	if !strings.Contains(stub.lastPrompt, "Calculus") {
		t.Error("topic missing from prompt")
	}
}

func TestRecommendFallsBack(t *testing.T) {
	svc := newTestService(&stubLLM{err: errors.New("503 unavailable")})

	got := svc.Recommend(context.Background(), "Physics", "", "", "")
	if len(got) != 2 {
		t.Fatalf("len(resources) = %d, want 2 fallback entries", len(got))
	}
	if got[0].Provider != "Khan Academy" || got[1].Provider != "YouTube" {
		t.Errorf("unexpected fallback providers: %s, %s", got[0].Provider, got[1].Provider)
	}
	for _, r := range got {
		if !r.Free {
			t.Error("fallback resources must be free")
		}
	}
}

func TestCreatePlanLevelAndGoal(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		target    float64
		wantLevel string
		wantGoal  string
		wantTime  string
	}{
		{"small gap", 15, 16, LevelUniPrep, "maintain and refine knowledge (currently 15/20)", "2-4 weeks with regular practice"},
		{"medium gap", 13, 16, LevelHighSchool, "improve from 13/20 to 16/20", "2-3 months with 1 hour/day"},
		{"large gap", 9, 16, LevelBeginner, "build foundations to improve from 9/20 to 16/20", "4-6 months with consistent effort"},
		{"unknown grades", -1, -1, LevelHighSchool, "improve understanding and grades", "2-3 months with regular practice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, goal := planLevelAndGoal("Math", tt.current, tt.target)
			if level != tt.wantLevel {
				t.Errorf("level = %q, want %q", level, tt.wantLevel)
			}
			if goal != tt.wantGoal {
				t.Errorf("goal = %q, want %q", goal, tt.wantGoal)
			}
			if got := estimateTime(tt.current, tt.target); got != tt.wantTime {
				t.Errorf("estimateTime = %q, want %q", got, tt.wantTime)
			}
		})
	}
}

func TestCreatePlanFallbackNarrative(t *testing.T) {
	stub := &stubLLM{err: errors.New("timeout")}
	svc := newTestService(stub)

	plan := svc.CreatePlan(context.Background(), "Math", "Calculus", 13, 16, 5)
	if plan.Plan == "" {
		t.Fatal("plan narrative empty")
	}
	if !strings.Contains(plan.Plan, "Calculus") {
		t.Errorf("fallback narrative should name the topic: %q", plan.Plan)
	}
	if plan.EstimatedTime != "2-3 months with 1 hour/day" {
		t.Errorf("EstimatedTime = %q", plan.EstimatedTime)
	}
	// LLM failed, so resources are the fallback set.
	if len(plan.Resources) != 2 {
		t.Errorf("len(resources) = %d, want 2", len(plan.Resources))
	}
}

func TestPriorityOrderFreeFirst(t *testing.T) {
	resources := []StudyResource{
		{Name: "Paid Course", Free: false, Type: "online_course"},
		{Name: "Free Videos", Free: true, Type: "video_course"},
		{Name: "Free Book", Free: true, Type: "textbook"},
	}
	got := priorityOrder(resources)
	want := []string{"Free Book", "Free Videos", "Paid Course"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("priorityOrder = %v, want %v", got, want)
		}
	}
}
