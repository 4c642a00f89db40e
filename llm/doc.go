// Package llm defines the backend-neutral contract for structured generation.
//
// A CompletionRequest carries a model identifier, a system instruction, the
// user prompt, and an optional JSON schema that constrains the response.
// A Generator sends exactly one request and returns the raw text it got back;
// it never parses or validates that text.
//
//	req := llm.NewCompletionRequest("gemini-3-pro-preview", instruction, prompt,
//	    llm.WithJSONSchema(auditSchema),
//	    llm.WithTemperature(0.2),
//	)
//	resp, err := generator.Generate(ctx, req)
//
// Concrete backends live in subpackages (see llm/gemini).
package llm
