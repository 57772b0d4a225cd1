// Package router classifies user messages into intents. Classification is
// LLM-based with a structured output schema; a crisis keyword scan always
// runs first and never goes through the LLM, and a keyword classifier
// covers LLM failure.
package router

// Intent is a classified user intent.
type Intent string

const (
	IntentCrisisSafety       Intent = "crisis_safety"
	IntentMajorDiscovery     Intent = "major_discovery"
	IntentTranscriptAnalysis Intent = "transcript_analysis"
	IntentGapAnalysis        Intent = "gap_analysis"
	IntentResourceRequest    Intent = "resource_request"
	IntentGeneralQuestion    Intent = "general_question"
	IntentGreeting           Intent = "greeting_or_chitchat"
	IntentUnknown            Intent = "unknown"
)

// validIntents are the values the classifier may return; anything else
// maps to IntentUnknown.
var validIntents = map[Intent]bool{
	IntentMajorDiscovery:     true,
	IntentTranscriptAnalysis: true,
	IntentGapAnalysis:        true,
	IntentResourceRequest:    true,
	IntentGeneralQuestion:    true,
	IntentGreeting:           true,
}

// Description returns a short human-readable label for the intent,
// used in thinking-step plans and logs.
func (i Intent) Description() string {
	switch i {
	case IntentMajorDiscovery:
		return "Exploring which university majors match your interests"
	case IntentTranscriptAnalysis:
		return "Analyzing your academic transcript"
	case IntentGapAnalysis:
		return "Checking if your grades meet requirements for a specific major"
	case IntentResourceRequest:
		return "Finding study resources to improve your skills"
	case IntentGeneralQuestion:
		return "Answering questions about universities and majors"
	case IntentGreeting:
		return "Having a casual conversation"
	default:
		return "Understanding your request"
	}
}

// Message is one turn of conversation history passed for context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UploadedFile describes a file the user attached to the session.
type UploadedFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Entities are details the classifier extracted from the message.
type Entities struct {
	Major         string
	Subjects      []string
	Interests     []string
	HasTranscript bool
}

// Result is the outcome of intent classification.
type Result struct {
	Intent             Intent
	Confidence         float64
	Reasoning          string
	Entities           Entities
	RequiresTranscript bool
	RequiresMajor      bool
}
