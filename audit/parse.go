package audit

import (
	"encoding/json"
	"errors"

	"github.com/zero-day-ai/vanguard/parser"
	"github.com/zero-day-ai/vanguard/schema"
)

// Parser is the Response Parser/Validator for one schema variant.
// It is stateless and safe for concurrent use.
type Parser struct {
	variant Variant
	schema  schema.JSON
}

// NewParser creates a parser that enforces the schema of v.
func NewParser(v Variant) *Parser {
	if !v.IsValid() {
		v = DefaultVariant
	}
	return &Parser{variant: v, schema: Schema(v)}
}

// Parse is shorthand for NewParser(v).Parse(raw).
func Parse(raw string, v Variant) (*Response, error) {
	return NewParser(v).Parse(raw)
}

// Parse converts raw backend text into a Response.
//
// Text that is not a JSON object fails with ErrMalformedResponse. A parsed
// object that lacks a required field, has a field of the wrong type, or has a
// severity outside the closed set fails with ErrSchemaViolation naming the
// first such field. No partially populated Response is ever returned.
func (p *Parser) Parse(raw string) (*Response, error) {
	text := parser.ExtractJSONObject(raw)

	obj, err := parser.DecodeObject(text)
	if errors.Is(err, parser.ErrNotObject) {
		return nil, &Error{Op: "Parse", Kind: KindSchemaViolation, Err: err, Raw: raw}
	}
	if err != nil {
		return nil, &Error{Op: "Parse", Kind: KindMalformedResponse, Err: err, Raw: raw}
	}

	if err := p.schema.Validate(obj); err != nil {
		e := &Error{Op: "Parse", Kind: KindSchemaViolation, Err: err, Raw: raw}
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			e.Field = verr.Path
		}
		return nil, e
	}

	// encoding/json matches keys case-insensitively, so decode only the
	// exact-case properties that were validated.
	data, err := json.Marshal(p.schema.Prune(obj))
	if err != nil {
		return nil, &Error{Op: "Parse", Kind: KindSchemaViolation, Err: err, Raw: raw}
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{Op: "Parse", Kind: KindSchemaViolation, Err: err, Raw: raw}
	}

	return &resp, nil
}
