package llm

import (
	"context"

	"github.com/zero-day-ai/vanguard/schema"
)

// MIMETypeJSON asks the backend for a structured JSON response instead of prose.
const MIMETypeJSON = "application/json"

// Generator sends one generation request to a backend and returns its reply.
// Implementations must be safe for concurrent use and must not keep any
// per-request state after Generate returns.
type Generator interface {
	Generate(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)
}

// GeneratorFunc adapts an ordinary function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

// Generate calls f(ctx, req).
func (f GeneratorFunc) Generate(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	return f(ctx, req)
}

// CompletionRequest represents a single structured-generation request.
type CompletionRequest struct {
	// Model identifies the backend model, e.g. "gemini-3-pro-preview".
	Model string

	// SystemInstruction steers tone and required content.
	SystemInstruction string

	// Prompt is the user content.
	Prompt string

	// ResponseMIMEType requests a response encoding. MIMETypeJSON for structured output.
	ResponseMIMEType string

	// ResponseSchema constrains the shape of a JSON response. Nil for none.
	ResponseSchema *schema.JSON

	// Temperature controls randomness in the output (0.0 to 2.0).
	Temperature *float64

	// MaxTokens limits the maximum number of tokens to generate.
	MaxTokens *int
}

// CompletionResponse represents a response from a backend.
type CompletionResponse struct {
	// Content is the generated text content. Empty when the backend returned nothing usable.
	Content string

	// FinishReason indicates why the generation stopped, as reported by the backend.
	FinishReason string

	// Usage contains token usage statistics.
	Usage TokenUsage
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// CompletionOption is a functional option for configuring CompletionRequest.
type CompletionOption func(*CompletionRequest)

// WithTemperature sets the temperature for the completion request.
func WithTemperature(t float64) CompletionOption {
	return func(r *CompletionRequest) {
		r.Temperature = &t
	}
}

// WithMaxTokens sets the maximum number of tokens to generate.
func WithMaxTokens(n int) CompletionOption {
	return func(r *CompletionRequest) {
		r.MaxTokens = &n
	}
}

// WithJSONSchema requests a JSON response constrained by s.
func WithJSONSchema(s schema.JSON) CompletionOption {
	return func(r *CompletionRequest) {
		r.ResponseMIMEType = MIMETypeJSON
		r.ResponseSchema = &s
	}
}

// ApplyOptions applies a set of options to the completion request.
func (r *CompletionRequest) ApplyOptions(opts ...CompletionOption) {
	for _, opt := range opts {
		opt(r)
	}
}

// NewCompletionRequest creates a request for model with the given system
// instruction and prompt.
func NewCompletionRequest(model, systemInstruction, prompt string, opts ...CompletionOption) *CompletionRequest {
	req := &CompletionRequest{
		Model:             model,
		SystemInstruction: systemInstruction,
		Prompt:            prompt,
	}
	req.ApplyOptions(opts...)
	return req
}

// HasContent returns true if the response contains text content.
func (r *CompletionResponse) HasContent() bool {
	return r != nil && r.Content != ""
}
