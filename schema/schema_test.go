package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveConstructors(t *testing.T) {
	tests := []struct {
		name    string
		schema  JSON
		valid   []any
		invalid []any
	}{
		{"string", String(), []any{"hello", ""}, []any{123, true, json.Number("4")}},
		{"integer", Int(), []any{42, int64(42), uint8(1), 42.0}, []any{"42", 3.14}},
		{"number", Number(), []any{3.14, float32(1.5), 7, json.Number("2.5")}, []any{"3.14", true}},
		{"boolean", Bool(), []any{true, false}, []any{1, "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.schema.Type)
			for _, v := range tt.valid {
				assert.NoError(t, tt.schema.Validate(v), "value %T(%v)", v, v)
			}
			for _, v := range tt.invalid {
				assert.Error(t, tt.schema.Validate(v), "value %T(%v)", v, v)
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	err := String().Validate(nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "expected string, got null", verr.Reason)

	assert.NoError(t, Any().Validate(nil))
}

func TestNonEmptyString(t *testing.T) {
	s := NonEmptyString("vector name")

	assert.NoError(t, s.Validate("SQL Injection"))

	err := s.Validate("")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "must not be empty", verr.Reason)
}

func TestStringEnumIsCaseSensitive(t *testing.T) {
	s := StringEnum("severity", "Critical", "High", "Medium", "Low")

	for _, v := range []string{"Critical", "High", "Medium", "Low"} {
		assert.NoError(t, s.Validate(v))
	}
	for _, v := range []any{"critical", "HIGH", "Info", "", 3} {
		assert.Error(t, s.Validate(v), "value %v", v)
	}
}

func TestValidateStringConstraints(t *testing.T) {
	tests := []struct {
		name      string
		schema    JSON
		value     any
		wantError bool
	}{
		{"within length", JSON{Type: "string", MinLength: intPtr(3), MaxLength: intPtr(10)}, "hello", false},
		{"too short", JSON{Type: "string", MinLength: intPtr(5)}, "hi", true},
		{"too long", JSON{Type: "string", MaxLength: intPtr(5)}, "hello world", true},
		{"runes not bytes", JSON{Type: "string", MaxLength: intPtr(2)}, "éé", false},
		{"pattern match", JSON{Type: "string", Pattern: "^[a-z]+$"}, "hello", false},
		{"pattern mismatch", JSON{Type: "string", Pattern: "^[a-z]+$"}, "Hello123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate(tt.value)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNumericConstraints(t *testing.T) {
	tests := []struct {
		name      string
		schema    JSON
		value     any
		wantError bool
	}{
		{"integer in range", JSON{Type: "integer", Minimum: floatPtr(0), Maximum: floatPtr(100)}, 50, false},
		{"integer below minimum", JSON{Type: "integer", Minimum: floatPtr(0)}, -10, true},
		{"number above maximum", JSON{Type: "number", Maximum: floatPtr(1.0)}, 1.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate(tt.value)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPropertyOrder(t *testing.T) {
	s := Object(map[string]JSON{
		"zeta":  String(),
		"alpha": String(),
		"title": String(),
		"steps": Array(String()),
	}, "title", "steps")

	assert.Equal(t, []string{"title", "steps", "alpha", "zeta"}, s.PropertyOrder())
}

func TestValidateReportsFirstFailingPath(t *testing.T) {
	threat := Object(map[string]JSON{
		"vector":   NonEmptyString(""),
		"severity": StringEnum("", "Critical", "High", "Medium", "Low"),
	}, "vector", "severity")

	root := Object(map[string]JSON{
		"stack":   Object(map[string]JSON{"os": String()}, "os"),
		"threats": Array(threat),
		"summary": NonEmptyString(""),
	}, "stack", "threats", "summary")

	tests := []struct {
		name   string
		value  map[string]any
		path   string
		reason string
	}{
		{
			name:   "missing first required field wins",
			value:  map[string]any{"threats": []any{}},
			path:   "stack",
			reason: "required field is missing",
		},
		{
			name: "nested missing field",
			value: map[string]any{
				"stack":   map[string]any{},
				"threats": []any{},
				"summary": "",
			},
			path:   "stack.os",
			reason: "required field is missing",
		},
		{
			name: "enum violation in array item",
			value: map[string]any{
				"stack": map[string]any{"os": "Linux"},
				"threats": []any{
					map[string]any{"vector": "XSS", "severity": "High"},
					map[string]any{"vector": "SSRF", "severity": "Severe"},
				},
				"summary": "ok",
			},
			path: "threats[1].severity",
		},
		{
			name: "earlier item checked before later one",
			value: map[string]any{
				"stack": map[string]any{"os": "Linux"},
				"threats": []any{
					map[string]any{"vector": "", "severity": "Bogus"},
				},
				"summary": "ok",
			},
			path:   "threats[0].vector",
			reason: "must not be empty",
		},
		{
			name: "wrong type",
			value: map[string]any{
				"stack":   map[string]any{"os": "Linux"},
				"threats": map[string]any{},
				"summary": "ok",
			},
			path:   "threats",
			reason: "expected array, got object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := root.Validate(tt.value)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.path, verr.Path)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, verr.Reason)
			}
		})
	}
}

func TestValidateArrayOfPrimitives(t *testing.T) {
	assert.NoError(t, Array(String()).Validate([]string{"a", "b"}))
	assert.NoError(t, Array(String()).Validate([]any{}))
	assert.Error(t, Array(Int()).Validate([]any{1, "two", 3}))
}

func TestObjectWithExtraPropertiesValidates(t *testing.T) {
	s := Object(map[string]JSON{"name": String()}, "name")
	assert.NoError(t, s.Validate(map[string]any{"name": "John", "extra": "field"}))
}

func TestPrune(t *testing.T) {
	s := Object(map[string]JSON{
		"summary": String(),
		"threats": Array(Object(map[string]JSON{"vector": String()}, "vector")),
		"tags":    Array(String()),
		"meta":    Any(),
	}, "summary")

	value := map[string]any{
		"summary": "ok",
		"Summary": "",
		"extra":   1.0,
		"threats": []any{
			map[string]any{"vector": "XSS", "VECTOR": ""},
		},
		"tags": []any{"a", "b"},
		"meta": map[string]any{"Anything": true},
	}

	assert.Equal(t, map[string]any{
		"summary": "ok",
		"threats": []any{map[string]any{"vector": "XSS"}},
		"tags":    []any{"a", "b"},
		"meta":    map[string]any{"Anything": true},
	}, s.Prune(value))

	assert.Equal(t, "scalar", s.Prune("scalar"))
	_, stillThere := value["Summary"]
	assert.True(t, stillThere, "input must not be modified")
}

func TestObjectFromStruct(t *testing.T) {
	type person struct {
		Name string `json:"name"`
	}
	s := Object(map[string]JSON{"name": String()}, "name")
	assert.NoError(t, s.Validate(person{Name: "Jane"}))
}

func TestSchemaMarshalsAsJSONSchema(t *testing.T) {
	s := Object(map[string]JSON{
		"severity": StringEnum("", "High", "Low"),
	}, "severity")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"severity": {"type": "string", "enum": ["High", "Low"]}},
		"required": ["severity"]
	}`, string(data))
}

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}
