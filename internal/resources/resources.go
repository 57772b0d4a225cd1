// Package resources generates study resource recommendations and study
// plans through the LLM, with deterministic fallbacks when generation fails.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
)

// Student levels used to steer recommendations.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelHighSchool   = "high_school"
	LevelUniPrep      = "university_prep"
)

// generationTemperature balances creativity and consistency for
// resource lists and plan narratives.
const generationTemperature = 0.7

// StudyResource is a single recommended learning resource. URLs are never
// generated; SearchHint tells the student how to find it.
type StudyResource struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Type        string `json:"type"`
	Language    string `json:"language"`
	Free        bool   `json:"free"`
	Description string `json:"description"`
	SearchHint  string `json:"search_hint"`
}

// StudyPlan bundles resources with a narrative and timeline.
type StudyPlan struct {
	Subject       string          `json:"subject"`
	Topic         string          `json:"topic,omitempty"`
	Resources     []StudyResource `json:"resources"`
	Plan          string          `json:"plan"`
	EstimatedTime string          `json:"estimated_time"`
	PriorityOrder []string        `json:"priority_order"`
}

// Service generates recommendations through an LLM client.
type Service struct {
	llm llm.Client
	log *logger.Logger
}

// NewService creates a resource service.
func NewService(client llm.Client, log *logger.Logger) *Service {
	return &Service{
		llm: client,
		log: log.WithModule("resources"),
	}
}

// LevelForGrade maps a 0-20 grade to a student level.
func LevelForGrade(grade float64) string {
	switch {
	case grade < 10:
		return LevelBeginner
	case grade < 14:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}

// Recommend generates study resource recommendations for a subject.
// topic, level, and goal may be empty; sensible defaults apply.
// On LLM failure it degrades to a fixed Khan Academy / YouTube set.
func (s *Service) Recommend(ctx context.Context, subject, topic, level, goal string) []StudyResource {
	if topic == "" {
		topic = "general"
	}
	if level == "" {
		level = LevelHighSchool
	}
	if goal == "" {
		goal = "improve understanding and grades"
	}

	prompt := fmt.Sprintf(resourcePromptFormat, subject, topic, level, goal)

	raw, err := s.llm.CompleteStructured(ctx, prompt, resourceSchema(), llm.Options{
		Temperature: generationTemperature,
	})
	if err != nil {
		s.log.Warnf("resource generation failed, using fallback: subject=%s err=%v", subject, err)
		return FallbackResources(subject)
	}

	var doc struct {
		Resources []StudyResource `json:"resources"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warnf("resource response malformed, using fallback: subject=%s err=%v", subject, err)
		return FallbackResources(subject)
	}

	resources := make([]StudyResource, 0, len(doc.Resources))
	for _, r := range doc.Resources {
		// Skip entries missing mandatory fields instead of failing the call.
		if r.Name == "" || r.Provider == "" || r.Type == "" || r.Language == "" ||
			r.Description == "" || r.SearchHint == "" {
			s.log.Warnf("skipping incomplete resource: name=%q", r.Name)
			continue
		}
		resources = append(resources, r)
	}

	if len(resources) == 0 {
		return FallbackResources(subject)
	}
	return resources
}

// CreatePlan builds a study plan for the subject. currentGrade and
// targetGrade are 0-20 grades; pass negative values when unknown.
// hoursPerWeek <= 0 means a flexible schedule.
func (s *Service) CreatePlan(ctx context.Context, subject, topic string, currentGrade, targetGrade float64, hoursPerWeek int) *StudyPlan {
	level, goal := planLevelAndGoal(subject, currentGrade, targetGrade)

	resources := s.Recommend(ctx, subject, topic, level, goal)

	timeStr := "flexible schedule"
	if hoursPerWeek > 0 {
		timeStr = fmt.Sprintf("%d hours/week", hoursPerWeek)
	}
	topicClause := ""
	if topic != "" {
		topicClause = fmt.Sprintf(" (specifically %s)", topic)
	}
	planPrompt := fmt.Sprintf(planPromptFormat, goal, subject, topicClause, timeStr, len(resources))

	planText, err := s.llm.Complete(ctx, planPrompt, llm.Options{
		Temperature: generationTemperature,
	})
	if err != nil {
		s.log.Warnf("plan narrative generation failed: subject=%s err=%v", subject, err)
		fallbackTopic := topic
		if fallbackTopic == "" {
			fallbackTopic = subject
		}
		planText = fmt.Sprintf("Start with foundational %s concepts, practice regularly with exercises, and gradually work through more advanced material. Consistency is key!", fallbackTopic)
	}

	return &StudyPlan{
		Subject:       subject,
		Topic:         topic,
		Resources:     resources,
		Plan:          planText,
		EstimatedTime: estimateTime(currentGrade, targetGrade),
		PriorityOrder: priorityOrder(resources),
	}
}

// planLevelAndGoal derives the student level and goal text from the
// grade gap when both grades are known.
func planLevelAndGoal(subject string, current, target float64) (string, string) {
	if current <= 0 || target <= 0 {
		return LevelHighSchool, "improve understanding and grades"
	}
	gap := target - current
	switch {
	case gap <= 1:
		return LevelUniPrep, fmt.Sprintf("maintain and refine knowledge (currently %g/20)", current)
	case gap <= 3:
		return LevelHighSchool, fmt.Sprintf("improve from %g/20 to %g/20", current, target)
	default:
		return LevelBeginner, fmt.Sprintf("build foundations to improve from %g/20 to %g/20", current, target)
	}
}

// estimateTime gives a realistic timeline based on the grade gap.
func estimateTime(current, target float64) string {
	if current <= 0 || target <= 0 {
		return "2-3 months with regular practice"
	}
	gap := target - current
	switch {
	case gap <= 1:
		return "2-4 weeks with regular practice"
	case gap <= 3:
		return "2-3 months with 1 hour/day"
	default:
		return "4-6 months with consistent effort"
	}
}

// priorityOrder sorts resource names free-first, then by type.
func priorityOrder(resources []StudyResource) []string {
	sorted := make([]StudyResource, len(resources))
	copy(sorted, resources)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Free != sorted[j].Free {
			return sorted[i].Free
		}
		return sorted[i].Type < sorted[j].Type
	})

	names := make([]string, len(sorted))
	for i, r := range sorted {
		names[i] = r.Name
	}
	return names
}

// FallbackResources returns generic but reliable resources when LLM
// generation is unavailable.
func FallbackResources(subject string) []StudyResource {
	return []StudyResource{
		{
			Name:        "Khan Academy: " + subject,
			Provider:    "Khan Academy",
			Type:        "video_course",
			Language:    "PT/EN",
			Free:        true,
			Description: "Comprehensive video lessons with practice exercises",
			SearchHint:  "Visit pt.khanacademy.org and search for " + subject,
		},
		{
			Name:        subject + " - YouTube Educational Channels",
			Provider:    "YouTube",
			Type:        "video_course",
			Language:    "PT",
			Free:        true,
			Description: "Various educational channels covering the topic",
			SearchHint:  fmt.Sprintf("Search YouTube for '%s aulas' or '%s explicação'", subject, subject),
		},
	}
}
