package audit

import (
	"context"
	"strings"

	"github.com/zero-day-ai/vanguard/llm"
)

// DefaultModel is the backend model used when none is configured.
const DefaultModel = "gemini-3-pro-preview"

// Client is the Generation Client. It turns one description into one
// schema-constrained request and returns the raw response text.
//
// A Client holds configuration only. It is safe for concurrent use and keeps
// no state between calls: no retries, no caching, no request queue.
type Client struct {
	generator   llm.Generator
	model       string
	variant     Variant
	requestOpts []llm.CompletionOption
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithModel sets the backend model identifier.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithVariant sets the schema variant.
func WithVariant(v Variant) ClientOption {
	return func(c *Client) {
		if v.IsValid() {
			c.variant = v
		}
	}
}

// WithRequestOptions appends options applied to every request, such as
// llm.WithTemperature.
func WithRequestOptions(opts ...llm.CompletionOption) ClientOption {
	return func(c *Client) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}

// NewClient creates a Generation Client over the given backend.
func NewClient(generator llm.Generator, opts ...ClientOption) *Client {
	c := &Client{
		generator: generator,
		model:     DefaultModel,
		variant:   DefaultVariant,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Variant returns the configured schema variant.
func (c *Client) Variant() Variant {
	return c.variant
}

// Request composes the generation request for a description.
// Rejecting a blank description is the caller's job, not the client's.
func (c *Client) Request(description string) *llm.CompletionRequest {
	opts := make([]llm.CompletionOption, 0, len(c.requestOpts)+1)
	opts = append(opts, c.requestOpts...)
	opts = append(opts, llm.WithJSONSchema(Schema(c.variant)))

	return llm.NewCompletionRequest(
		c.model,
		c.variant.SystemInstruction(),
		c.variant.Prompt(description),
		opts...,
	)
}

// Generate makes exactly one backend call for description and returns the
// raw response text. It fails with ErrGenerationEmpty when the backend
// returns no text, and with ErrBackend carrying the backend's error for
// anything else that goes wrong.
func (c *Client) Generate(ctx context.Context, description string) (string, error) {
	resp, err := c.generator.Generate(ctx, c.Request(description))
	if err != nil {
		return "", &Error{Op: "Client.Generate", Kind: KindBackend, Err: err}
	}
	if !resp.HasContent() || strings.TrimSpace(resp.Content) == "" {
		return "", &Error{Op: "Client.Generate", Kind: KindGenerationEmpty, Err: ErrGenerationEmpty}
	}
	return resp.Content, nil
}
