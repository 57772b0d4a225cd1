package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ready4uni/advisor-go/internal/resources"
)

func testResourceToolset(stub *stubLLM) *resourceToolset {
	return &resourceToolset{svc: resources.NewService(stub, testLogger())}
}

func TestFindStudyResources(t *testing.T) {
	// A failing LLM exercises the curated fallback set.
	rt := testResourceToolset(&stubLLM{err: errors.New("provider down")})

	got, err := rt.findStudyResources(context.Background(), Args{
		"subject": "Math",
		"topic":   "Calculus",
	})
	if err != nil {
		t.Fatalf("findStudyResources: %v", err)
	}
	if got["success"] != true {
		t.Fatalf("expected success, got %v", got)
	}

	found := got["resources"].([]resources.StudyResource)
	if len(found) == 0 {
		t.Fatal("expected fallback resources")
	}
	for _, r := range found {
		if !r.Free {
			t.Errorf("fallback resource %q should be free", r.Name)
		}
	}
	if got["count"] != len(found) {
		t.Errorf("count = %v, want %d", got["count"], len(found))
	}
	if got["subject"] != "Math" || got["topic"] != "Calculus" {
		t.Errorf("subject/topic = %v/%v", got["subject"], got["topic"])
	}
}

func TestFindStudyResourcesRequiresSubject(t *testing.T) {
	rt := testResourceToolset(&stubLLM{})

	if _, err := rt.findStudyResources(context.Background(), Args{"topic": "Calculus"}); err == nil {
		t.Fatal("expected error for missing subject")
	}
}

func TestCreateStudyPlan(t *testing.T) {
	rt := testResourceToolset(&stubLLM{err: errors.New("provider down")})

	got, err := rt.createStudyPlan(context.Background(), Args{
		"subject":                 "Math",
		"topic":                   "Calculus",
		"current_grade":           13.0,
		"target_grade":            16.0,
		"available_time_per_week": 5.0,
	})
	if err != nil {
		t.Fatalf("createStudyPlan: %v", err)
	}
	if got["success"] != true {
		t.Fatalf("expected success, got %v", got)
	}

	plan := got["plan"].(string)
	if !strings.Contains(plan, "Calculus") {
		t.Errorf("fallback plan should mention the topic: %q", plan)
	}
	if got["estimated_time"] != "2-3 months with 1 hour/day" {
		t.Errorf("estimated_time = %v", got["estimated_time"])
	}
	order := got["priority_order"].([]string)
	if len(order) == 0 {
		t.Error("priority_order empty")
	}
}
