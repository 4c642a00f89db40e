// Package gemini implements llm.Generator on top of the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zero-day-ai/vanguard/llm"
	"github.com/zero-day-ai/vanguard/schema"
	"google.golang.org/genai"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = "gemini-3-pro-preview"

// Config configures the Gemini generator.
type Config struct {
	// APIKey is the opaque backend credential.
	APIKey string

	// BaseURL overrides the Gemini API endpoint. Empty for the public endpoint.
	BaseURL string

	// HTTPClient overrides the transport. Nil for the SDK default.
	HTTPClient *http.Client
}

// Generator sends structured-generation requests to Gemini.
// It holds only the SDK client, which is safe for concurrent use.
type Generator struct {
	client *genai.Client
}

// New creates a Gemini generator.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini generator requires an API key")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Generator{client: client}, nil
}

// Generate performs exactly one GenerateContent call. The returned Content is
// the response text as-is; an empty Content means the backend produced nothing usable.
func (g *Generator) Generate(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), buildConfig(req))
	if err != nil {
		return nil, fmt.Errorf("gemini generation failed: %w", err)
	}

	out := &llm.CompletionResponse{}
	if resp == nil {
		return out, nil
	}

	out.Content = resp.Text()
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		out.FinishReason = string(resp.Candidates[0].FinishReason)
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = llm.TokenUsage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}

	return out, nil
}

func buildConfig(req *llm.CompletionRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: req.ResponseMIMEType,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.ResponseSchema != nil {
		config.ResponseSchema = ToSchema(*req.ResponseSchema)
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		config.Temperature = &t
	}
	if req.MaxTokens != nil {
		config.MaxOutputTokens = int32(*req.MaxTokens)
	}
	return config
}

// ToSchema converts a JSON schema into the Gemini schema representation.
// Property ordering follows schema.JSON.PropertyOrder so the model emits
// fields in a stable order.
func ToSchema(s schema.JSON) *genai.Schema {
	out := &genai.Schema{
		Type:        toType(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Pattern:     s.Pattern,
		Format:      s.Format,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
	}

	if len(s.Enum) > 0 {
		out.Enum = make([]string, len(s.Enum))
		for i, v := range s.Enum {
			out.Enum[i] = fmt.Sprint(v)
		}
	}
	if s.MinLength != nil {
		n := int64(*s.MinLength)
		out.MinLength = &n
	}
	if s.MaxLength != nil {
		n := int64(*s.MaxLength)
		out.MaxLength = &n
	}
	if s.Items != nil {
		out.Items = ToSchema(*s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = ToSchema(prop)
		}
		out.PropertyOrdering = s.PropertyOrder()
	}

	return out
}

func toType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
