package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/metrics"
)

// classificationTemperature keeps intent classification consistent.
const classificationTemperature = 0.2

// historyWindow is how many recent messages feed the classifier.
const historyWindow = 3

// Router classifies messages using the LLM with a keyword fallback.
type Router struct {
	llm     llm.Client
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New creates a Router. metrics may be nil.
func New(client llm.Client, log *logger.Logger, m *metrics.Metrics) *Router {
	return &Router{
		llm:     client,
		log:     log.WithModule("router"),
		metrics: m,
	}
}

// Classify determines the intent of a user message.
//
// The crisis scan runs first, never delegated to the LLM; a hit returns
// IntentCrisisSafety with confidence 1.0 and short-circuits everything
// downstream. On LLM failure the keyword classifier answers with a fixed
// confidence of 0.6.
func (r *Router) Classify(ctx context.Context, message string, history []Message, files []UploadedFile) Result {
	if IsCrisisMessage(message) {
		r.log.Warnf("crisis keywords detected")
		if r.metrics != nil {
			r.metrics.RecordCrisisTrigger()
		}
		return Result{
			Intent:     IntentCrisisSafety,
			Confidence: 1.0,
			Reasoning:  "Crisis/safety keywords detected in user message",
		}
	}

	prompt := buildClassificationPrompt(message, history, files)

	raw, err := r.llm.CompleteStructured(ctx, prompt, intentSchema(), llm.Options{
		Temperature: classificationTemperature,
	})
	if err != nil {
		r.log.Warnf("llm classification failed, using keyword fallback: %v", err)
		return fallbackClassification(message, files)
	}

	result, err := parseClassification(raw, files)
	if err != nil {
		r.log.Warnf("classification response malformed, using keyword fallback: %v", err)
		return fallbackClassification(message, files)
	}

	r.log.Infof("intent classified: %s (confidence: %.2f)", result.Intent, result.Confidence)
	return result
}

// RequiresClarification returns a clarification question when the result
// cannot be acted on, or "" when the orchestrator may proceed. Checks run
// in priority order: low confidence, gap analysis without a major, then
// transcript needed but not uploaded.
func RequiresClarification(res Result) string {
	if res.Confidence < 0.5 {
		return "I'm not quite sure what you're looking for. Could you rephrase that?"
	}
	if res.Intent == IntentGapAnalysis && res.Entities.Major == "" {
		return "Which major would you like me to check your readiness for?"
	}
	if res.RequiresTranscript && !res.Entities.HasTranscript {
		return "I'll need to see your transcript to help with that. Could you upload your grades PDF?"
	}
	return ""
}

func buildClassificationPrompt(message string, history []Message, files []UploadedFile) string {
	var contextParts []string

	if len(history) > 0 {
		recent := history
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		var lines []string
		for _, msg := range recent {
			role := "Assistant"
			if msg.Role == "user" {
				role = "User"
			}
			lines = append(lines, role+": "+msg.Content)
		}
		contextParts = append(contextParts, "**Recent conversation:**\n"+strings.Join(lines, "\n"))
	}

	if len(files) > 0 {
		var entries []string
		for _, f := range files {
			name := f.Name
			if name == "" {
				name = "unnamed"
			}
			path := f.Path
			if path == "" {
				path = "unknown"
			}
			entries = append(entries, fmt.Sprintf("%s (at %s)", name, path))
		}
		contextParts = append(contextParts, "**Uploaded files:** "+strings.Join(entries, ", "))
	}

	contextStr := "No previous context."
	if len(contextParts) > 0 {
		contextStr = strings.Join(contextParts, "\n\n")
	}

	return fmt.Sprintf("%s\n\n%s\n\n**Current user message:**\n%q\n\nClassify the intent and extract any relevant entities.",
		classifierPrompt, contextStr, message)
}

// classificationDoc mirrors the structured output schema.
type classificationDoc struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Entities   struct {
		MajorMentioned         string   `json:"major_mentioned"`
		SubjectsMentioned      []string `json:"subjects_mentioned"`
		Interests              []string `json:"interests"`
		HasTranscriptReference bool     `json:"has_transcript_reference"`
	} `json:"extracted_entities"`
}

func parseClassification(raw json.RawMessage, files []UploadedFile) (Result, error) {
	var doc classificationDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Result{}, fmt.Errorf("unmarshal classification: %w", err)
	}

	intent := Intent(doc.Intent)
	if !validIntents[intent] {
		intent = IntentUnknown
	}

	confidence := doc.Confidence
	if confidence == 0 {
		confidence = 0.9
	}

	hasUpload := len(files) > 0

	requiresTranscript := intent == IntentTranscriptAnalysis ||
		intent == IntentGapAnalysis ||
		doc.Entities.HasTranscriptReference

	requiresMajor := intent == IntentGapAnalysis && doc.Entities.MajorMentioned != ""

	return Result{
		Intent:     intent,
		Confidence: confidence,
		Reasoning:  doc.Reasoning,
		Entities: Entities{
			Major:         doc.Entities.MajorMentioned,
			Subjects:      doc.Entities.SubjectsMentioned,
			Interests:     doc.Entities.Interests,
			HasTranscript: hasUpload,
		},
		RequiresTranscript: requiresTranscript,
		RequiresMajor:      requiresMajor,
	}, nil
}

// fallbackClassification answers with keyword matching when the LLM is
// unavailable. Confidence is fixed at 0.6.
func fallbackClassification(message string, files []UploadedFile) Result {
	lower := strings.ToLower(message)

	hasUpload := len(files) > 0
	hasTranscript := hasUpload ||
		containsAnyKeyword(lower, "transcript", "grades", "report card", "my scores")

	var intent Intent
	switch {
	case containsAnyKeyword(lower, "hello", "hi", "hey", "thanks", "thank you"):
		intent = IntentGreeting
	case containsAnyKeyword(lower, "what major", "which major", "suggest major", "recommend major", "i like", "i love", "interested in"):
		intent = IntentMajorDiscovery
	case containsAnyKeyword(lower, "am i ready", "do i qualify", "meet requirements", "good enough") && hasTranscript:
		intent = IntentGapAnalysis
	case hasTranscript:
		intent = IntentTranscriptAnalysis
	case containsAnyKeyword(lower, "study", "learn", "improve", "course", "resource", "how can i"):
		intent = IntentResourceRequest
	default:
		intent = IntentGeneralQuestion
	}

	return Result{
		Intent:             intent,
		Confidence:         0.6,
		Reasoning:          "Classified using keyword fallback due to LLM error",
		Entities:           Entities{HasTranscript: hasUpload},
		RequiresTranscript: hasTranscript,
	}
}

func containsAnyKeyword(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
