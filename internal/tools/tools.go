// Package tools implements the function-calling tools the agent can invoke:
// transcript parsing, grade analysis, major lookup and matching, and study
// resource generation. A Registry executes tools by name and never lets an
// error escape a tool boundary; failures come back as unsuccessful Results.
package tools

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/ready4uni/advisor-go/internal/errors"
	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/metrics"
)

// Args holds the raw arguments the model supplied for a tool call.
// Values arrive JSON-decoded, so numbers are float64 and lists are []any.
type Args map[string]any

// String returns a required string argument.
func (a Args) String(key string) (string, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrMissingParameter, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", apperrors.ErrInvalidParameter, key)
	}
	if s == "" {
		return "", fmt.Errorf("%w: %s", apperrors.ErrMissingParameter, key)
	}
	return s, nil
}

// OptString returns an optional string argument, or "" when absent.
func (a Args) OptString(key string) string {
	s, _ := a[key].(string)
	return s
}

// OptBool returns an optional boolean argument, or false when absent.
func (a Args) OptBool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// OptInt returns an optional integer argument, or def when absent or
// not coercible.
func (a Args) OptInt(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// OptFloat returns an optional numeric argument, or 0 when absent.
func (a Args) OptFloat(key string) float64 {
	switch v := a[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// OptStringSlice returns an optional list-of-strings argument.
// Non-string elements are skipped.
func (a Args) OptStringSlice(key string) []string {
	raw, ok := a[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// GradeMap returns a required subject-to-grade argument. Null and
// non-numeric grades are dropped rather than failing the whole call,
// since models routinely emit partial transcripts.
func (a Args) GradeMap(key string) (map[string]float64, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingParameter, key)
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object mapping subjects to grades", apperrors.ErrInvalidParameter, key)
	}

	grades := make(map[string]float64, len(raw))
	for subject, value := range raw {
		switch g := value.(type) {
		case float64:
			grades[subject] = g
		case int:
			grades[subject] = float64(g)
		case string:
			if f, err := strconv.ParseFloat(g, 64); err == nil {
				grades[subject] = f
			}
		}
	}
	return grades, nil
}

// Result is the outcome of one tool execution.
type Result struct {
	Tool     string         `json:"tool_name"`
	Success  bool           `json:"success"`
	Payload  map[string]any `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
	Duration time.Duration  `json:"execution_time"`
	Args     map[string]any `json:"args,omitempty"`
}

// Tool is one callable exposed to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  *llm.Schema
	Run         func(ctx context.Context, args Args) (map[string]any, error)
}

// Registry maps tool names to their implementations.
type Registry struct {
	tools map[string]*Tool
	order []string
	log   *logger.Logger
	m     *metrics.Metrics
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
		log:   log.WithModule("tools"),
		m:     m,
	}
}

// Register adds a tool, replacing any previous tool with the same name.
func (r *Registry) Register(t *Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Schemas returns the function declarations for every registered tool,
// in registration order, ready to hand to the LLM.
func (r *Registry) Schemas() []llm.ToolSchema {
	out := make([]llm.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, llm.ToolSchema{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return out
}

// Execute runs the named tool with the given arguments. It never returns
// an error: unknown tools, argument problems, panics and tool failures all
// come back as a Result with Success=false. Execution time is always
// recorded, including for failures.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (res Result) {
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res = Result{
				Tool:     name,
				Success:  false,
				Error:    fmt.Sprintf("tool panicked: %v", p),
				Duration: time.Since(start),
				Args:     args,
			}
			r.record(name, "panic", res.Duration)
			r.log.Errorf("tool %s panicked: %v", name, p)
		}
	}()

	tool, ok := r.tools[name]
	if !ok {
		res = Result{
			Tool:     name,
			Success:  false,
			Error:    fmt.Sprintf("tool '%s' not found in registry", name),
			Duration: time.Since(start),
		}
		r.record(name, "not_found", res.Duration)
		r.log.Warnf("unknown tool requested: %s", name)
		return res
	}

	payload, err := tool.Run(ctx, Args(args))
	duration := time.Since(start)

	if err != nil {
		r.record(name, "error", duration)
		r.log.Errorf("tool %s failed: %v", name, err)
		return Result{
			Tool:     name,
			Success:  false,
			Error:    err.Error(),
			Duration: duration,
			Args:     args,
		}
	}

	r.record(name, "ok", duration)
	return Result{
		Tool:     name,
		Success:  true,
		Payload:  payload,
		Duration: duration,
		Args:     args,
	}
}

func (r *Registry) record(tool, status string, d time.Duration) {
	if r.m != nil {
		r.m.RecordToolExecution(tool, status, d.Seconds())
	}
}

// truncate clips s to at most n bytes, appending an ellipsis when clipped.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// clip cuts s to at most n bytes without an ellipsis.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
