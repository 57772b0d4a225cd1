// Package chat is the coordination layer between the HTTP surface and the
// agent loop: session ids, the pre-agent crisis check, follow-up suggestions,
// response shaping and best-effort conversation persistence.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ready4uni/advisor-go/internal/agent"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/metrics"
	"github.com/ready4uni/advisor-go/internal/router"
)

// maxSuggestions caps follow-up suggestions per response.
const maxSuggestions = 3

// historyLimit bounds how much stored conversation is replayed into a turn
// when the caller did not supply history.
const historyLimit = 10

// fallbackErrorMessage is shown when a run failed without a usable response.
const fallbackErrorMessage = "I'm having trouble processing your request right now. " +
	"This could be a temporary issue. Please try:\n" +
	"- Rephrasing your question\n" +
	"- Being more specific about what you need\n" +
	"- Checking if any files uploaded correctly\n\n" +
	"If the problem persists, feel free to start a new conversation."

// Request is one inbound user turn.
type Request struct {
	Message       string
	History       []router.Message
	UploadedFiles []router.UploadedFile
	SessionID     string
	UserID        string
}

// Metadata describes how a response was produced.
type Metadata struct {
	Intent        string   `json:"intent,omitempty"`
	ToolsUsed     []string `json:"tools_used,omitempty"`
	ExecutionTime float64  `json:"execution_time,omitempty"`
	SessionID     string   `json:"session_id"`
	Status        string   `json:"status,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Response is what the transport layer returns to the client.
type Response struct {
	Message     string   `json:"message"`
	Success     bool     `json:"success"`
	Metadata    Metadata `json:"metadata"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Turn is one completed exchange handed to the store.
type Turn struct {
	SessionID        string
	UserID           string
	UserMessage      string
	AssistantMessage string
	Intent           string
	Success          bool
}

// Store persists conversations. Persistence is best effort: store failures
// are logged and never fail a chat turn.
type Store interface {
	SaveTurn(ctx context.Context, turn Turn) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]router.Message, error)
}

// Service coordinates one chat turn end to end.
type Service struct {
	orch  *agent.Orchestrator
	store Store
	log   *logger.Logger
	m     *metrics.Metrics
}

// New creates a chat service. store may be nil to disable persistence.
func New(orch *agent.Orchestrator, store Store, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		orch:  orch,
		store: store,
		log:   log.WithModule("chat"),
		m:     m,
	}
}

// ProcessMessage runs the full pipeline for one user message and always
// returns a well-formed Response.
func (s *Service) ProcessMessage(ctx context.Context, req Request) Response {
	start := time.Now()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.log.Infof("processing message: session=%s len=%d", sessionID, len(req.Message))

	// Safety check before any agent processing. The router repeats this
	// check inside classification; running it here keeps crisis handling
	// independent of the agent loop.
	if router.IsCrisisMessage(req.Message) {
		s.log.Warnf("crisis detected: session=%s", sessionID)
		if s.m != nil {
			s.m.RecordCrisisTrigger()
			s.m.RecordChat(string(router.IntentCrisisSafety), "completed", time.Since(start).Seconds())
		}
		return Response{
			Message: router.CrisisResponse,
			Success: true,
			Metadata: Metadata{
				Intent:    string(router.IntentCrisisSafety),
				SessionID: sessionID,
			},
		}
	}

	history := req.History
	if len(history) == 0 && s.store != nil {
		stored, err := s.store.RecentMessages(ctx, sessionID, historyLimit)
		if err != nil {
			s.log.Warnf("loading history failed: session=%s err=%v", sessionID, err)
		} else {
			history = stored
		}
	}

	state := s.orch.Run(ctx, agent.Request{
		UserMessage:   req.Message,
		History:       history,
		UploadedFiles: req.UploadedFiles,
		SessionID:     sessionID,
		UserID:        req.UserID,
	})

	intent := string(router.IntentUnknown)
	if state.Intent != nil {
		intent = string(state.Intent.Intent)
	}
	s.recordChat(intent, string(state.Status), time.Since(start))

	switch {
	case state.Status == agent.StatusCompleted && state.FinalResponse != "":
		resp := Response{
			Message: state.FinalResponse,
			Success: true,
			Metadata: Metadata{
				Intent:        intent,
				ToolsUsed:     toolNames(state),
				ExecutionTime: state.TotalExecutionTime.Seconds(),
				SessionID:     sessionID,
			},
			Suggestions: suggestionsFor(state),
		}
		s.saveTurn(ctx, Turn{
			SessionID:        sessionID,
			UserID:           req.UserID,
			UserMessage:      req.Message,
			AssistantMessage: state.FinalResponse,
			Intent:           intent,
			Success:          true,
		})
		return resp

	case state.Status == agent.StatusError:
		s.log.Errorf("agent error: session=%s err=%s", sessionID, state.ErrorMessage)
		message := state.FinalResponse
		if message == "" {
			message = fallbackErrorMessage
		}
		return Response{
			Message: message,
			Success: false,
			Metadata: Metadata{
				SessionID: sessionID,
				Error:     state.ErrorMessage,
			},
		}

	default:
		s.log.Warnf("unexpected agent status: %s", state.Status)
		return Response{
			Message: "I had trouble processing that. Could you try rephrasing?",
			Success: false,
			Metadata: Metadata{
				SessionID: sessionID,
				Status:    string(state.Status),
			},
		}
	}
}

func (s *Service) recordChat(intent, status string, d time.Duration) {
	if s.m != nil {
		s.m.RecordChat(intent, status, d.Seconds())
	}
}

func (s *Service) saveTurn(ctx context.Context, turn Turn) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveTurn(ctx, turn); err != nil {
		s.log.Warnf("persisting turn failed: session=%s err=%v", turn.SessionID, err)
	}
}

// toolNames lists every tool call of the run, duplicates included, so the
// metadata reflects the actual execution trace.
func toolNames(state *agent.State) []string {
	if len(state.ToolResults) == 0 {
		return nil
	}
	names := make([]string, len(state.ToolResults))
	for i, tr := range state.ToolResults {
		names[i] = tr.Tool
	}
	return names
}

// suggestionsFor picks follow-up prompts by intent. Gap analysis branches on
// whether any tool result actually surfaced gaps.
func suggestionsFor(state *agent.State) []string {
	if state.Intent == nil {
		return nil
	}

	var suggestions []string
	switch state.Intent.Intent {
	case router.IntentMajorDiscovery:
		suggestions = []string{
			"Tell me more about one of these majors",
			"Check if my grades meet the requirements",
			"What careers can I pursue with this major?",
		}

	case router.IntentTranscriptAnalysis:
		suggestions = []string{
			"Which major should I consider based on my grades?",
			"How can I improve my weakest subject?",
			"Am I ready for Computer Science?",
		}

	case router.IntentGapAnalysis:
		if hasGapSignals(state) {
			suggestions = []string{
				"Show me resources to improve my weak subjects",
				"What's a realistic timeline to close these gaps?",
				"Are there alternative majors that fit my current grades?",
			}
		} else {
			suggestions = []string{
				"What universities offer this major?",
				"What should I focus on to maintain my readiness?",
				"Tell me about career prospects in this field",
			}
		}

	case router.IntentResourceRequest:
		suggestions = []string{
			"Create a study schedule for me",
			"Are there any free courses available?",
			"What's the most important topic to focus on first?",
		}

	case router.IntentGeneralQuestion:
		suggestions = []string{
			"Help me find majors that match my interests",
			"Analyze my transcript",
			"What are the most popular majors?",
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// hasGapSignals textually scans successful tool payloads for gap language.
func hasGapSignals(state *agent.State) bool {
	for _, tr := range state.ToolResults {
		if !tr.Success {
			continue
		}
		rendered := strings.ToLower(fmt.Sprintf("%v", tr.Payload))
		if strings.Contains(rendered, "gap") || strings.Contains(rendered, "improve") {
			return true
		}
	}
	return false
}
