package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	apperrors "github.com/ready4uni/advisor-go/internal/errors"
)

// GeminiClient implements Client on top of Google's Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w: api key is required", apperrors.ErrInvalidInput)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// Provider returns the provider name.
func (c *GeminiClient) Provider() string { return "gemini" }

// Close releases resources held by the client.
// genai.Client is stateless, so there is nothing to release.
func (c *GeminiClient) Close() error { return nil }

// Complete returns a plain-text completion.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.buildConfig(opts))
	if err != nil {
		return "", WrapError(err, c.Provider(), 0)
	}

	text := firstText(result)
	if text == "" {
		return "", fmt.Errorf("gemini: %w", apperrors.ErrEmptyResponse)
	}
	return text, nil
}

// CompleteStructured returns JSON conforming to schema, using Gemini's
// native constrained decoding (response_schema).
func (c *GeminiClient) CompleteStructured(ctx context.Context, prompt string, schema *Schema, opts Options) (json.RawMessage, error) {
	config := c.buildConfig(opts)
	config.ResponseMIMEType = "application/json"
	config.ResponseSchema = toGeminiSchema(schema)

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, WrapError(err, c.Provider(), 0)
	}

	text := firstText(result)
	if text == "" {
		return nil, fmt.Errorf("gemini: %w", apperrors.ErrEmptyResponse)
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("gemini: %w: not valid JSON", apperrors.ErrInvalidResponse)
	}
	return json.RawMessage(text), nil
}

// CompleteWithTools generates a completion with function calling enabled.
// AUTO mode (the default) lets the model call tools or answer in text.
func (c *GeminiClient) CompleteWithTools(ctx context.Context, prompt string, tools []ToolSchema, opts Options) (*ToolDecision, error) {
	config := c.buildConfig(opts)

	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toGeminiSchema(t.Parameters),
		})
	}
	config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, WrapError(err, c.Provider(), 0)
	}

	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: %w", apperrors.ErrEmptyResponse)
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: %w", apperrors.ErrEmptyResponse)
	}

	decision := &ToolDecision{}
	for _, part := range candidate.Content.Parts {
		if part.FunctionCall != nil {
			decision.ToolCalls = append(decision.ToolCalls, ToolCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
			continue
		}
		if part.Text != "" {
			decision.Text += part.Text
		}
	}

	if decision.Text == "" && len(decision.ToolCalls) == 0 {
		return nil, fmt.Errorf("gemini: %w", apperrors.ErrEmptyResponse)
	}
	return decision, nil
}

// buildConfig maps Options onto a generation config.
func (c *GeminiClient) buildConfig(opts Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if opts.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr[float32](opts.Temperature)
	}
	if opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}
	return config
}

// firstText extracts the concatenated text parts from the first candidate.
func firstText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var text string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

// toGeminiSchema converts the provider-neutral schema into the genai form.
// Gemini uses uppercase type constants (genai.TypeString = "STRING").
func toGeminiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        geminiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
	}
	if s.Items != nil {
		out.Items = toGeminiSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}

func geminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeString
	}
}
