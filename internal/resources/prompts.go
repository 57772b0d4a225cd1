package resources

import "github.com/ready4uni/advisor-go/internal/llm"

// resourcePromptFormat takes subject, topic, level, goal.
const resourcePromptFormat = `Generate personalized study resource recommendations for a high school student in Portugal.

**Context:**
- Subject: %s
- Specific Topic: %s
- Student Level: %s
- Goal: %s

**Requirements:**
1. Recommend 3-5 high-quality, accessible resources
2. Prioritize FREE or low-cost options
3. Include Portuguese language resources when available (note if English-only)
4. Focus on platforms like:
   - Khan Academy (has Portuguese version for many topics)
   - YouTube (educational channels)
   - Coursera, edX, Udemy (many free courses)
   - Interactive practice sites

**Important:**
- Do NOT invent URLs. Provide search hints instead.
- Be realistic about time commitment
- Explain WHY each resource is recommended`

// planPromptFormat takes goal, subject, topic clause, time string,
// and resource count.
const planPromptFormat = `Create a brief study plan for a student who wants to %s in %s%s.

Available time: %s
Resources available: %d curated resources

Provide a 3-4 sentence study plan covering:
1. Where to start (foundational concepts)
2. How to progress (sequence of topics)
3. How to practice (exercises, problems)
4. Realistic timeline

Keep it encouraging and actionable.`

// resourceSchema constrains the structured resource response.
func resourceSchema() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"subject": {Type: "string"},
			"resources": {
				Type: "array",
				Items: &llm.Schema{
					Type: "object",
					Properties: map[string]*llm.Schema{
						"type": {
							Type: "string",
							Enum: []string{"video_course", "online_course", "practice_platform", "textbook", "youtube_channel"},
						},
						"name":        {Type: "string"},
						"provider":    {Type: "string"},
						"language":    {Type: "string"},
						"free":        {Type: "boolean"},
						"description": {Type: "string"},
						"search_hint": {Type: "string"},
					},
					Required: []string{"type", "name", "provider", "language", "description", "search_hint"},
				},
			},
			"study_plan":     {Type: "string"},
			"estimated_time": {Type: "string"},
		},
		Required: []string{"subject", "resources"},
	}
}
