package audit

import (
	"errors"
	"fmt"
)

// Sentinel errors for the audit failure taxonomy.
// Every failure is terminal for the current audit and is never retried.
var (
	// ErrBlankDescription indicates the caller passed an empty or whitespace-only description.
	ErrBlankDescription = errors.New("description must not be blank")

	// ErrGenerationEmpty indicates the backend returned no usable text.
	ErrGenerationEmpty = errors.New("no content returned")

	// ErrBackend indicates a network, auth, quota, or backend-side failure.
	ErrBackend = errors.New("backend error")

	// ErrMalformedResponse indicates the returned text was not parseable JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrSchemaViolation indicates parsed JSON with a missing or invalid field.
	ErrSchemaViolation = errors.New("schema violation")
)

// Error kinds categorize audit errors.
const (
	KindValidation        = "validation"
	KindGenerationEmpty   = "generation_empty"
	KindBackend           = "backend"
	KindMalformedResponse = "malformed_response"
	KindSchemaViolation   = "schema_violation"
)

// Error is the structured error returned by the audit pipeline.
// It supports errors.Is against the sentinels above and unwraps to the cause.
type Error struct {
	// Op is the operation that failed (e.g. "Client.Generate", "Parse").
	Op string

	// Kind categorizes the error.
	Kind string

	// Err is the underlying cause.
	Err error

	// Field names the offending field of a schema violation, e.g. "threatModel[1].severity".
	Field string

	// Raw holds the backend text of a malformed or non-conforming response.
	// It is kept for logs only and never included in Error().
	Raw string
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("audit: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("audit: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the taxonomy sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrBlankDescription:
		return e.Kind == KindValidation
	case ErrGenerationEmpty:
		return e.Kind == KindGenerationEmpty
	case ErrBackend:
		return e.Kind == KindBackend
	case ErrMalformedResponse:
		return e.Kind == KindMalformedResponse
	case ErrSchemaViolation:
		return e.Kind == KindSchemaViolation
	}
	return false
}

// KindOf returns the kind of an audit error, or "" if err is not one.
func KindOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage renders err as the single human-readable message a caller
// presents before letting the user resubmit. Raw response text is never included.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Kind {
	case KindValidation:
		return "Please describe the target system before starting an audit."
	case KindGenerationEmpty:
		return "Audit generation failed: No content returned."
	case KindBackend:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Audit generation failed: backend error."
	case KindMalformedResponse:
		return "Audit generation failed: the response could not be parsed."
	case KindSchemaViolation:
		return fmt.Sprintf("Audit generation failed: invalid or missing field %q.", e.Field)
	default:
		return err.Error()
	}
}
