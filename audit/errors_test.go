package audit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	sentinels := map[string]error{
		KindValidation:        ErrBlankDescription,
		KindGenerationEmpty:   ErrGenerationEmpty,
		KindBackend:           ErrBackend,
		KindMalformedResponse: ErrMalformedResponse,
		KindSchemaViolation:   ErrSchemaViolation,
	}

	for kind := range sentinels {
		err := &Error{Op: "test", Kind: kind, Err: errors.New("cause")}
		for otherKind, other := range sentinels {
			assert.Equal(t, kind == otherKind, errors.Is(err, other), "%s vs %s", kind, otherKind)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := fmt.Errorf("wrapped: %w", &Error{Op: "Client.Generate", Kind: KindBackend, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindBackend, KindOf(err))
	assert.Equal(t, "", KindOf(cause))
	assert.Equal(t, "", KindOf(nil))
}

func TestError_MessageOmitsRaw(t *testing.T) {
	err := &Error{Op: "Parse", Kind: KindMalformedResponse, Err: errors.New("unexpected end of JSON input"), Raw: `{"techStack": {"os": "secret`}

	assert.Equal(t, "audit: Parse: unexpected end of JSON input", err.Error())
	assert.NotContains(t, UserMessage(err), "secret")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", &Error{Kind: KindValidation, Err: ErrBlankDescription}, "Please describe the target system before starting an audit."},
		{"empty", &Error{Kind: KindGenerationEmpty, Err: ErrGenerationEmpty}, "Audit generation failed: No content returned."},
		{"backend", &Error{Kind: KindBackend, Err: errors.New("429 RESOURCE_EXHAUSTED")}, "429 RESOURCE_EXHAUSTED"},
		{"malformed", &Error{Kind: KindMalformedResponse, Raw: "{"}, "Audit generation failed: the response could not be parsed."},
		{"schema", &Error{Kind: KindSchemaViolation, Field: "threatModel[0].severity"}, `Audit generation failed: invalid or missing field "threatModel[0].severity".`},
		{"foreign", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
