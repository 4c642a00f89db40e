// Package audit implements the structured-generation contract for security
// audits: the Audit Schema, the Generation Client, the Response
// Parser/Validator, and the typed Response model.
//
// The flow for one audit is
//
//	description → Client.Generate → raw text → Parse → *Response
//
// Schema, system instruction, and parser are all selected by a single
// Variant, so a deployment can never mix the required-field sets.
//
// Every failure is an *Error whose kind matches one of the sentinels
// ErrGenerationEmpty, ErrBackend, ErrMalformedResponse, or ErrSchemaViolation.
// UserMessage renders the text a caller should show.
//
// Commands and validation payloads inside a Response are display-only text.
// Nothing in this package executes them.
package audit
