package tools

import (
	"github.com/ready4uni/advisor-go/internal/extract"
	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/majors"
	"github.com/ready4uni/advisor-go/internal/metrics"
	"github.com/ready4uni/advisor-go/internal/resources"
	"github.com/ready4uni/advisor-go/internal/transcript"
)

// Deps are the services the built-in tools delegate to.
type Deps struct {
	LLM       llm.Client
	Catalog   *majors.Catalog
	Engine    *transcript.Engine
	Resources *resources.Service
	Extractor extract.TextExtractor
}

// NewDefaultRegistry builds a registry with the full advisor toolset:
// parse_transcript, analyze_grades, get_major_info, get_major_suggestions,
// search_major_database, find_study_resources and
// create_personalized_study_plan.
func NewDefaultRegistry(deps Deps, log *logger.Logger, m *metrics.Metrics) *Registry {
	r := NewRegistry(log, m)

	tt := &transcriptToolset{
		extractor: deps.Extractor,
		llm:       deps.LLM,
		engine:    deps.Engine,
		catalog:   deps.Catalog,
		log:       log.WithModule("tools"),
	}
	mt := &majorToolset{catalog: deps.Catalog}
	rt := &resourceToolset{svc: deps.Resources}

	r.Register(&Tool{
		Name:        "parse_transcript",
		Description: "Extracts and parses grade information from an uploaded high school transcript PDF. Returns structured grade data for all subjects.",
		Parameters:  parseTranscriptParams(),
		Run:         tt.parseTranscript,
	})
	r.Register(&Tool{
		Name:        "get_major_info",
		Description: "Retrieves comprehensive information about a specific university major from the curated database. Returns major description, typical requirements, career paths, and related information.",
		Parameters:  getMajorInfoParams(),
		Run:         mt.getMajorInfo,
	})
	r.Register(&Tool{
		Name:        "get_major_suggestions",
		Description: "Suggests suitable university majors based on student's interests, favorite subjects, hobbies, and career goals. Uses semantic matching against major descriptions and keywords.",
		Parameters:  getMajorSuggestionsParams(),
		Run:         mt.getMajorSuggestions,
	})
	r.Register(&Tool{
		Name:        "analyze_grades",
		Description: "Compares student's current grades against requirements for a specific major. Identifies which subjects meet requirements and which need improvement.",
		Parameters:  analyzeGradesParams(),
		Run:         tt.analyzeGrades,
	})
	r.Register(&Tool{
		Name:        "find_study_resources",
		Description: "Generates personalized study resource recommendations (courses, videos, practice sites) for a specific subject or topic. Resources are tailored to the student's level and goals.",
		Parameters:  findStudyResourcesParams(),
		Run:         rt.findStudyResources,
	})
	r.Register(&Tool{
		Name:        "search_major_database",
		Description: "Searches the major database by name, keywords, or description. Useful when the user mentions a major but the exact name is uncertain.",
		Parameters:  searchMajorDatabaseParams(),
		Run:         mt.searchMajorDatabase,
	})
	r.Register(&Tool{
		Name:        "create_personalized_study_plan",
		Description: "Creates a comprehensive study plan with curated resources, a step-by-step approach, a realistic timeline, and priority ordering.",
		Parameters:  createStudyPlanParams(),
		Run:         rt.createStudyPlan,
	})

	return r
}
