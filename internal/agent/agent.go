// Package agent implements the observe-plan-act orchestration loop: classify
// intent, pick a plan, let the model request tools, execute them, and
// synthesize a final answer from the gathered results.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ready4uni/advisor-go/internal/config"
	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/metrics"
	"github.com/ready4uni/advisor-go/internal/router"
	"github.com/ready4uni/advisor-go/internal/tools"
)

// Status tracks where a run is in the loop.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusThinking     Status = "thinking"
	StatusCallingTool  Status = "calling_tool"
	StatusSynthesizing Status = "synthesizing"
	StatusCompleted    Status = "completed"
	StatusError        Status = "error"
)

// Per-call temperatures: tool selection stays deterministic, synthesis and
// chitchat get room to phrase.
const (
	decisionTemperature  = 0.3
	synthesisTemperature = 0.7
	greetingTemperature  = 0.8
)

// Result payloads are truncated before re-entering prompts.
const (
	decisionResultPreview  = 100
	synthesisResultPreview = 500
)

// errorResponse is returned to the user when a run fails outright.
const errorResponse = "I encountered an error while processing your request. " +
	"Could you try rephrasing or let me know if you need help?"

// ToolCallRecord is one entry in the run's call log.
type ToolCallRecord struct {
	Tool      string    `json:"tool"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

// Request carries one user turn into the loop.
type Request struct {
	UserMessage   string
	History       []router.Message
	UploadedFiles []router.UploadedFile
	SessionID     string
	UserID        string
}

// State is the full record of one agent run.
type State struct {
	UserMessage   string
	History       []router.Message
	UploadedFiles []router.UploadedFile

	Intent *router.Result

	Status      Status
	ToolCalls   []ToolCallRecord
	ToolResults []tools.Result
	Plan        string

	FinalResponse string
	ErrorMessage  string

	SessionID          string
	UserID             string
	StartTime          time.Time
	TotalExecutionTime time.Duration
}

func (s *State) addToolResult(res tools.Result) {
	s.ToolResults = append(s.ToolResults, res)
	s.ToolCalls = append(s.ToolCalls, ToolCallRecord{
		Tool:      res.Tool,
		Success:   res.Success,
		Timestamp: time.Now(),
	})
}

// ToolsUsed returns the distinct tool names called during the run,
// in first-call order.
func (s *State) ToolsUsed() []string {
	seen := make(map[string]struct{}, len(s.ToolCalls))
	used := make([]string, 0, len(s.ToolCalls))
	for _, tc := range s.ToolCalls {
		if _, ok := seen[tc.Tool]; ok {
			continue
		}
		seen[tc.Tool] = struct{}{}
		used = append(used, tc.Tool)
	}
	return used
}

// HadErrors reports whether any tool execution failed.
func (s *State) HadErrors() bool {
	for _, tr := range s.ToolResults {
		if !tr.Success {
			return true
		}
	}
	return false
}

// Summary condenses the run for logs and response metadata.
func (s *State) Summary() map[string]any {
	intent := string(router.IntentUnknown)
	if s.Intent != nil {
		intent = string(s.Intent.Intent)
	}
	return map[string]any{
		"intent":         intent,
		"status":         string(s.Status),
		"num_tool_calls": len(s.ToolCalls),
		"tools_used":     s.ToolsUsed(),
		"success":        s.Status == StatusCompleted && s.FinalResponse != "",
		"execution_time": s.TotalExecutionTime.Seconds(),
		"had_errors":     s.HadErrors(),
	}
}

// Orchestrator runs the agent loop against a tool registry.
type Orchestrator struct {
	llm           llm.Client
	router        *router.Router
	registry      *tools.Registry
	maxIterations int
	maxToolCalls  int
	log           *logger.Logger
	m             *metrics.Metrics
}

// New creates an orchestrator bounded by cfg.
func New(client llm.Client, rt *router.Router, registry *tools.Registry, cfg config.AgentConfig, log *logger.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		llm:           client,
		router:        rt,
		registry:      registry,
		maxIterations: cfg.MaxIterations,
		maxToolCalls:  cfg.MaxToolCalls,
		log:           log.WithModule("agent"),
		m:             m,
	}
}

// Run executes the full loop for one user turn. It always returns a usable
// State: failures surface as StatusError with a generic user-facing response,
// never as a returned error.
func (o *Orchestrator) Run(ctx context.Context, req Request) *State {
	state := &State{
		UserMessage:   req.UserMessage,
		History:       req.History,
		UploadedFiles: req.UploadedFiles,
		SessionID:     req.SessionID,
		UserID:        req.UserID,
		Status:        StatusIdle,
		StartTime:     time.Now(),
	}
	defer func() {
		state.TotalExecutionTime = time.Since(state.StartTime)
	}()

	// Observe: classify intent.
	state.Status = StatusThinking
	intent := o.router.Classify(ctx, req.UserMessage, req.History, req.UploadedFiles)
	state.Intent = &intent
	o.log.Infof("intent classified: %s (confidence %.2f)", intent.Intent, intent.Confidence)

	if question := router.RequiresClarification(intent); question != "" {
		o.log.Infof("clarification needed: %s", question)
		state.FinalResponse = question
		state.Status = StatusCompleted
		return state
	}

	if intent.Intent == router.IntentGreeting {
		reply, err := o.llm.Complete(ctx, fmt.Sprintf(greetingPromptFormat, req.UserMessage), llm.Options{
			SystemInstruction: systemPrompt,
			Temperature:       greetingTemperature,
		})
		if err != nil {
			return o.fail(state, fmt.Errorf("greeting response: %w", err))
		}
		state.FinalResponse = reply
		state.Status = StatusCompleted
		return state
	}

	// Plan: fixed per-intent outline, fed to the model as context.
	state.Plan = planFor(intent.Intent)

	// Act: let the model request tools until it stops or limits hit.
	iterations := 0
	for iterations < o.maxIterations {
		iterations++

		if len(state.ToolCalls) >= o.maxToolCalls {
			o.log.Warnf("reached max tool calls limit (%d)", o.maxToolCalls)
			break
		}

		state.Status = StatusCallingTool
		decision, err := o.decideNextTool(ctx, state)
		if err != nil {
			return o.fail(state, fmt.Errorf("tool decision: %w", err))
		}
		if decision == nil || len(decision.ToolCalls) == 0 {
			o.log.Debugf("no more tools needed after %d iterations", iterations)
			break
		}

		for _, call := range decision.ToolCalls {
			o.log.Infof("calling tool %s", call.Name)
			res := o.registry.Execute(ctx, call.Name, call.Args)
			state.addToolResult(res)
			if !res.Success {
				o.log.Errorf("tool %s failed: %s", call.Name, res.Error)
			}
		}
	}
	if o.m != nil {
		o.m.RecordAgentIterations(iterations)
	}

	// Respond: synthesize from everything gathered.
	state.Status = StatusSynthesizing
	reply, err := o.llm.Complete(ctx, o.synthesisPrompt(state), llm.Options{
		SystemInstruction: systemPrompt,
		Temperature:       synthesisTemperature,
	})
	if err != nil {
		return o.fail(state, fmt.Errorf("synthesis: %w", err))
	}
	state.FinalResponse = reply
	state.Status = StatusCompleted

	o.log.Infof("agent completed: %d tool calls in %d iterations", len(state.ToolCalls), iterations)
	return state
}

func (o *Orchestrator) fail(state *State, err error) *State {
	o.log.Errorf("agent run failed: %v", err)
	state.Status = StatusError
	state.ErrorMessage = err.Error()
	state.FinalResponse = errorResponse
	return state
}

// decideNextTool asks the model, with the full function declarations, what
// to call next. Zero tool calls means the model considers itself done.
func (o *Orchestrator) decideNextTool(ctx context.Context, state *State) (*llm.ToolDecision, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "User intent: %s\n", state.Intent.Intent)
	fmt.Fprintf(&b, "User message: %q\n", state.UserMessage)
	fmt.Fprintf(&b, "Plan: %s\n", state.Plan)

	if len(state.ToolResults) > 0 {
		b.WriteString("\n**Tools already called:**\n")
		for _, tr := range state.ToolResults {
			if tr.Success {
				fmt.Fprintf(&b, "- OK %s: %s\n", tr.Tool, renderPayload(tr.Payload, decisionResultPreview))
			} else {
				fmt.Fprintf(&b, "- FAILED %s: %s\n", tr.Tool, tr.Error)
			}
		}
	}

	if len(state.UploadedFiles) > 0 {
		names := make([]string, 0, len(state.UploadedFiles))
		for _, f := range state.UploadedFiles {
			names = append(names, describeFile(f))
		}
		fmt.Fprintf(&b, "\n**Uploaded files:** %s\n", strings.Join(names, ", "))
	}

	b.WriteString("\n")
	b.WriteString(decisionGuidelines)

	return o.llm.CompleteWithTools(ctx, b.String(), o.registry.Schemas(), llm.Options{
		SystemInstruction: systemPrompt,
		Temperature:       decisionTemperature,
	})
}

func (o *Orchestrator) synthesisPrompt(state *State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**User's original question:** %q\n", state.UserMessage)
	fmt.Fprintf(&b, "**Intent:** %s\n", state.Intent.Intent)

	if len(state.ToolResults) > 0 {
		b.WriteString("\n**Information gathered from tools:**\n")
		for _, tr := range state.ToolResults {
			if tr.Success {
				fmt.Fprintf(&b, "\n*%s:*\n", tr.Tool)
				fmt.Fprintf(&b, "```\n%s\n```\n", renderPayload(tr.Payload, synthesisResultPreview))
			} else {
				fmt.Fprintf(&b, "\n*%s failed:* %s\n", tr.Tool, tr.Error)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(synthesisGuidelines)
	return b.String()
}

// renderPayload flattens a tool payload for prompt context, truncated to
// limit bytes.
func renderPayload(payload map[string]any, limit int) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return truncate(fmt.Sprintf("%v", payload), limit)
	}
	return truncate(string(data), limit)
}

func describeFile(f router.UploadedFile) string {
	name := f.Name
	if name == "" {
		name = "unnamed"
	}
	path := f.Path
	if path == "" {
		path = "unknown"
	}
	return fmt.Sprintf("%s (at %s)", name, path)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
