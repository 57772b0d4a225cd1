package tools

import "github.com/ready4uni/advisor-go/internal/llm"

// Tool parameter declarations handed to the model as function signatures.

func parseTranscriptParams() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"file_path": {
				Type:        "string",
				Description: "Path to the uploaded PDF file. MUST be a valid path from the Uploaded files section.",
			},
		},
		Required: []string{"file_path"},
	}
}

func getMajorInfoParams() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"major_name": {
				Type:        "string",
				Description: "Name of the major to look up (e.g., 'Computer Science', 'Engineering', 'Medicine')",
			},
			"include_similar": {
				Type:        "boolean",
				Description: "If true, also return similar/related majors",
			},
		},
		Required: []string{"major_name"},
	}
}

func getMajorSuggestionsParams() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"interests": {
				Type:        "array",
				Items:       &llm.Schema{Type: "string"},
				Description: "List of student interests, hobbies, or favorite activities",
			},
			"favorite_subjects": {
				Type:        "array",
				Items:       &llm.Schema{Type: "string"},
				Description: "List of favorite school subjects",
			},
			"career_goals": {
				Type:        "string",
				Description: "Student's career aspirations or dream jobs (optional)",
			},
			"top_n": {
				Type:        "integer",
				Description: "Number of major suggestions to return",
			},
		},
	}
}

func analyzeGradesParams() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"student_grades": {
				Type:        "object",
				Description: "Dictionary mapping subjects to grades (e.g., {\"Math\": 13, \"Physics\": 15})",
			},
			"major_name": {
				Type:        "string",
				Description: "Name of the target major to compare against",
			},
		},
		Required: []string{"student_grades", "major_name"},
	}
}

func findStudyResourcesParams() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"subject": {
				Type:        "string",
				Description: "Subject area (e.g., 'Math', 'Physics', 'Portuguese')",
			},
			"topic": {
				Type:        "string",
				Description: "Specific topic within the subject (e.g., 'Calculus', 'Mechanics'). Optional but helps narrow recommendations.",
			},
			"level": {
				Type:        "string",
				Description: "Student's current level: high_school, university_prep, beginner, or intermediate",
			},
			"goal": {
				Type:        "string",
				Description: "Student's goal (e.g., 'improve from 13 to 16', 'prepare for university entrance exam')",
			},
		},
		Required: []string{"subject"},
	}
}

func searchMajorDatabaseParams() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"query": {
				Type:        "string",
				Description: "Search query (e.g., 'computer', 'engineering', 'medical')",
			},
			"max_results": {
				Type:        "integer",
				Description: "Maximum number of results to return",
			},
		},
		Required: []string{"query"},
	}
}

func createStudyPlanParams() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"subject": {
				Type:        "string",
				Description: "Subject to study (e.g., 'Math')",
			},
			"topic": {
				Type:        "string",
				Description: "Specific topic within the subject (e.g., 'Calculus')",
			},
			"current_grade": {
				Type:        "number",
				Description: "Student's current grade on the 0-20 scale",
			},
			"target_grade": {
				Type:        "number",
				Description: "Desired grade on the 0-20 scale",
			},
			"available_time_per_week": {
				Type:        "integer",
				Description: "Hours available per week for study",
			},
		},
		Required: []string{"subject"},
	}
}

// Structured-output schemas used by LLM-backed tools.

func transcriptSchema() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"student_name":  {Type: "string"},
			"school":        {Type: "string"},
			"academic_year": {Type: "string"},
			"grades": {
				Type: "array",
				Items: &llm.Schema{
					Type: "object",
					Properties: map[string]*llm.Schema{
						"subject": {Type: "string"},
						"grade":   {Type: "number"},
					},
					Required: []string{"subject", "grade"},
				},
			},
			"gpa": {Type: "number"},
			"parsing_confidence": {
				Type: "string",
				Enum: []string{"high", "medium", "low"},
			},
			"notes": {Type: "string"},
		},
		Required: []string{"grades"},
	}
}

func gapAnalysisSchema() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"overall_readiness": {
				Type: "string",
				Enum: []string{"ready", "mostly_ready", "needs_improvement", "significant_gaps"},
			},
			"analysis": {
				Type: "array",
				Items: &llm.Schema{
					Type: "object",
					Properties: map[string]*llm.Schema{
						"subject": {
							Type:        "string",
							Description: "ONLY the subject name (e.g., 'Math', 'Physics', 'Portuguese'). Maximum 30 characters. Do NOT include grades, explanations, or any other text.",
						},
						"student_grade":  {Type: "number"},
						"required_grade": {Type: "number"},
						"gap":            {Type: "number"},
						"status": {
							Type: "string",
							Enum: []string{"meets_requirement", "close", "significant_gap"},
						},
						"recommendation": {
							Type:        "string",
							Description: "Brief study recommendation. Maximum 100 characters.",
						},
					},
				},
			},
			"strengths": {
				Type:  "array",
				Items: &llm.Schema{Type: "string"},
			},
			"priority_subjects": {
				Type:  "array",
				Items: &llm.Schema{Type: "string"},
			},
			"summary": {Type: "string"},
		},
		Required: []string{"overall_readiness", "analysis", "summary"},
	}
}
