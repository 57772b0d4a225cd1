package tools

import (
	"context"

	"github.com/ready4uni/advisor-go/internal/resources"
)

type resourceToolset struct {
	svc *resources.Service
}

func (t *resourceToolset) findStudyResources(ctx context.Context, args Args) (map[string]any, error) {
	subj, err := args.String("subject")
	if err != nil {
		return nil, err
	}
	topic := args.OptString("topic")
	level := args.OptString("level")
	if level == "" {
		level = resources.LevelHighSchool
	}
	goal := args.OptString("goal")

	found := t.svc.Recommend(ctx, subj, topic, level, goal)
	if len(found) == 0 {
		return map[string]any{
			"success":   false,
			"error":     "Could not generate resource recommendations",
			"resources": []resources.StudyResource{},
		}, nil
	}

	return map[string]any{
		"success":   true,
		"resources": found,
		"count":     len(found),
		"subject":   subj,
		"topic":     topic,
	}, nil
}

func (t *resourceToolset) createStudyPlan(ctx context.Context, args Args) (map[string]any, error) {
	subj, err := args.String("subject")
	if err != nil {
		return nil, err
	}
	topic := args.OptString("topic")
	currentGrade := args.OptFloat("current_grade")
	targetGrade := args.OptFloat("target_grade")
	hoursPerWeek := args.OptInt("available_time_per_week", 0)

	plan := t.svc.CreatePlan(ctx, subj, topic, currentGrade, targetGrade, hoursPerWeek)

	return map[string]any{
		"success":        true,
		"plan":           plan.Plan,
		"resources":      plan.Resources,
		"estimated_time": plan.EstimatedTime,
		"priority_order": plan.PriorityOrder,
		"subject":        subj,
		"topic":          topic,
	}, nil
}
