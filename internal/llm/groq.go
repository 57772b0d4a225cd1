package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	apperrors "github.com/ready4uni/advisor-go/internal/errors"
)

// GroqClient implements Client against Groq's OpenAI-compatible API.
// The openai-go SDK uses lowercase JSON Schema types per Draft 2020-12,
// so the neutral Schema maps directly.
type GroqClient struct {
	client openai.Client
	model  string
}

// NewGroqClient creates a Groq-backed client. baseURL points at the
// OpenAI-compatible endpoint (https://api.groq.com/openai/v1).
func NewGroqClient(apiKey, model, baseURL string) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq: %w: api key is required", apperrors.ErrInvalidInput)
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &GroqClient{
		client: client,
		model:  model,
	}, nil
}

// Provider returns the provider name.
func (c *GroqClient) Provider() string { return "groq" }

// Close releases resources held by the client.
func (c *GroqClient) Close() error { return nil }

// Complete returns a plain-text completion.
func (c *GroqClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.buildParams(prompt, opts))
	if err != nil {
		return "", WrapError(err, c.Provider(), 0)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("groq: %w", apperrors.ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteStructured returns JSON conforming to schema. Groq has no
// constrained decoding for arbitrary schemas, so the schema is inlined
// into the prompt and the reply is validated after fence stripping.
func (c *GroqClient) CompleteStructured(ctx context.Context, prompt string, schema *Schema, opts Options) (json.RawMessage, error) {
	schemaJSON, err := json.Marshal(schemaDoc(schema))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	augmented := prompt + "\n\nRespond with a single JSON object matching this schema, with no surrounding text:\n" + string(schemaJSON)

	resp, err := c.client.Chat.Completions.New(ctx, c.buildParams(augmented, opts))
	if err != nil {
		return nil, WrapError(err, c.Provider(), 0)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("groq: %w", apperrors.ErrEmptyResponse)
	}

	raw := stripJSONFences(resp.Choices[0].Message.Content)
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("groq: %w: not valid JSON", apperrors.ErrInvalidResponse)
	}
	return json.RawMessage(raw), nil
}

// CompleteWithTools generates a completion with tool calling in auto mode,
// so the model may answer in text instead of calling a tool.
func (c *GroqClient) CompleteWithTools(ctx context.Context, prompt string, tools []ToolSchema, opts Options) (*ToolDecision, error) {
	params := c.buildParams(prompt, opts)
	params.Tools = buildOpenAITools(tools)
	params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
		OfAuto: openai.String(string(openai.ChatCompletionToolChoiceOptionAutoAuto)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, WrapError(err, c.Provider(), 0)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("groq: %w", apperrors.ErrEmptyResponse)
	}

	msg := resp.Choices[0].Message
	decision := &ToolDecision{Text: msg.Content}

	for _, tc := range msg.ToolCalls {
		if tc.Type != "function" {
			continue
		}
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("groq: %w: bad tool arguments for %s: %v",
					apperrors.ErrInvalidResponse, tc.Function.Name, err)
			}
		}
		decision.ToolCalls = append(decision.ToolCalls, ToolCall{
			Name: tc.Function.Name,
			Args: args,
		})
	}

	if decision.Text == "" && len(decision.ToolCalls) == 0 {
		return nil, fmt.Errorf("groq: %w", apperrors.ErrEmptyResponse)
	}
	return decision, nil
}

// buildParams maps Options onto chat completion params.
func (c *GroqClient) buildParams(prompt string, opts Options) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if opts.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(opts.SystemInstruction))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(float64(opts.Temperature))
	}
	if opts.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxOutputTokens))
	}
	return params
}

// buildOpenAITools converts the neutral tool schemas to openai-go v3 form.
func buildOpenAITools(tools []ToolSchema) []openai.ChatCompletionToolUnionParam {
	result := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, t := range tools {
		doc := schemaDoc(t.Parameters)
		result = append(result, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(doc),
		}))
	}
	return result
}

// schemaDoc renders a Schema as a plain JSON Schema document.
func schemaDoc(s *Schema) map[string]any {
	if s == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	doc := map[string]any{"type": s.Type}
	if s.Description != "" {
		doc["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		doc["enum"] = s.Enum
	}
	if s.Items != nil {
		doc["items"] = schemaDoc(s.Items)
	}
	if s.Type == "object" {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = schemaDoc(prop)
		}
		doc["properties"] = props
		if len(s.Required) > 0 {
			doc["required"] = s.Required
		}
	}
	return doc
}

// stripJSONFences removes a markdown code fence around a JSON reply.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
