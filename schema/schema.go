package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"unicode/utf8"
)

// JSON represents a JSON Schema definition.
// It is the declarative shape handed to a generation backend as an output
// constraint, and the same value is used to re-validate what comes back.
type JSON struct {
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
	Properties  map[string]JSON `json:"properties,omitempty"`
	Required    []string        `json:"required,omitempty"`
	Items       *JSON           `json:"items,omitempty"`
	Enum        []any           `json:"enum,omitempty"`
	Minimum     *float64        `json:"minimum,omitempty"`
	Maximum     *float64        `json:"maximum,omitempty"`
	MinLength   *int            `json:"minLength,omitempty"`
	MaxLength   *int            `json:"maxLength,omitempty"`
	Pattern     string          `json:"pattern,omitempty"`
	Format      string          `json:"format,omitempty"`
}

// Any creates a JSON schema that accepts any type.
func Any() JSON {
	return JSON{}
}

// String creates a JSON schema for a string type.
func String() JSON {
	return JSON{Type: "string"}
}

// StringWithDesc creates a JSON schema for a string type with a description.
func StringWithDesc(desc string) JSON {
	return JSON{
		Type:        "string",
		Description: desc,
	}
}

// NonEmptyString creates a string schema that rejects the empty string.
func NonEmptyString(desc string) JSON {
	one := 1
	return JSON{
		Type:        "string",
		Description: desc,
		MinLength:   &one,
	}
}

// Int creates a JSON schema for an integer type.
func Int() JSON {
	return JSON{Type: "integer"}
}

// Number creates a JSON schema for a number type.
func Number() JSON {
	return JSON{Type: "number"}
}

// Bool creates a JSON schema for a boolean type.
func Bool() JSON {
	return JSON{Type: "boolean"}
}

// Array creates a JSON schema for an array type with the specified item schema.
func Array(items JSON) JSON {
	return JSON{
		Type:  "array",
		Items: &items,
	}
}

// Object creates a JSON schema for an object type with the specified properties and required fields.
// The order of required is significant: validation reports the first failing field in that order.
func Object(properties map[string]JSON, required ...string) JSON {
	return JSON{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Enum creates a JSON schema with enumerated values.
func Enum(values ...any) JSON {
	return JSON{Enum: values}
}

// StringEnum creates a string schema restricted to the given values.
func StringEnum(desc string, values ...string) JSON {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return JSON{
		Type:        "string",
		Description: desc,
		Enum:        enum,
	}
}

// WithDescription returns a copy of the schema with the description set.
func (s JSON) WithDescription(desc string) JSON {
	s.Description = desc
	return s
}

// PropertyOrder returns the property names of an object schema in a stable
// order: required fields as declared, then optional fields sorted by name.
func (s JSON) PropertyOrder() []string {
	order := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.Required {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}

	var optional []string
	for name := range s.Properties {
		if !seen[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)

	return append(order, optional...)
}

// ValidationError reports the first location at which a value does not
// conform to a schema.
type ValidationError struct {
	// Path locates the offending field, e.g. "threatModel[2].severity".
	// Empty for the root value.
	Path string

	// Reason describes what is wrong with the value at Path.
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Validate validates the given value against this JSON schema.
// On failure it returns a *ValidationError naming the first offending field.
// Object fields are checked in PropertyOrder, array items in index order.
func (s JSON) Validate(value any) error {
	return s.validate(value, "")
}

// Prune returns a copy of decoded JSON holding only the properties s declares,
// matched by exact key. Undeclared keys, including case variants of declared
// ones, are dropped at every depth. Values of other shapes are returned as-is.
func (s JSON) Prune(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if s.Type != "object" || len(s.Properties) == 0 {
			return v
		}
		out := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			if field, ok := v[name]; ok {
				out[name] = prop.Prune(field)
			}
		}
		return out
	case []any:
		if s.Items == nil {
			return v
		}
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = s.Items.Prune(item)
		}
		return out
	default:
		return value
	}
}

func (s JSON) validate(value any, path string) error {
	if value == nil {
		if s.Type != "" {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("expected %s, got null", s.Type)}
		}
		return nil
	}

	if s.Type != "" {
		if err := s.validateType(value, path); err != nil {
			return err
		}
	}

	if len(s.Enum) > 0 {
		if err := s.validateEnum(value, path); err != nil {
			return err
		}
	}

	switch s.Type {
	case "string":
		return s.validateString(value, path)
	case "integer", "number":
		return s.validateNumber(value, path)
	case "array":
		return s.validateArray(value, path)
	case "object":
		return s.validateObject(value, path)
	}

	return nil
}

// validateType checks if the value matches the expected type.
func (s JSON) validateType(value any, path string) error {
	v := reflect.ValueOf(value)
	fail := func() error {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("expected %s, got %s", s.Type, describe(value))}
	}

	switch s.Type {
	case "string":
		if _, isNumber := value.(json.Number); isNumber || v.Kind() != reflect.String {
			return fail()
		}
	case "integer":
		f, ok := toFloat(value)
		if !ok {
			return fail()
		}
		if f != float64(int64(f)) {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("expected integer, got float with decimal: %v", value)}
		}
	case "number":
		if _, ok := toFloat(value); !ok {
			return fail()
		}
	case "boolean":
		if v.Kind() != reflect.Bool {
			return fail()
		}
	case "array":
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return fail()
		}
	case "object":
		if v.Kind() != reflect.Map && v.Kind() != reflect.Struct {
			return fail()
		}
	}

	return nil
}

// validateString validates string-specific constraints.
func (s JSON) validateString(value any, path string) error {
	str := reflect.ValueOf(value).String()
	n := utf8.RuneCountInString(str)

	if s.MinLength != nil && n < *s.MinLength {
		if n == 0 {
			return &ValidationError{Path: path, Reason: "must not be empty"}
		}
		return &ValidationError{Path: path, Reason: fmt.Sprintf("string length %d is less than minimum %d", n, *s.MinLength)}
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("string length %d is greater than maximum %d", n, *s.MaxLength)}
	}

	if s.Pattern != "" {
		matched, err := regexp.MatchString(s.Pattern, str)
		if err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
		if !matched {
			return &ValidationError{Path: path, Reason: fmt.Sprintf("string does not match pattern %s", s.Pattern)}
		}
	}

	return nil
}

// validateNumber validates minimum and maximum constraints.
func (s JSON) validateNumber(value any, path string) error {
	num, _ := toFloat(value)
	if s.Minimum != nil && num < *s.Minimum {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("value %v is less than minimum %v", num, *s.Minimum)}
	}
	if s.Maximum != nil && num > *s.Maximum {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("value %v is greater than maximum %v", num, *s.Maximum)}
	}
	return nil
}

// validateArray validates every item in index order.
func (s JSON) validateArray(value any, path string) error {
	if s.Items == nil {
		return nil
	}

	v := reflect.ValueOf(value)
	for i := 0; i < v.Len(); i++ {
		itemPath := path + "[" + strconv.Itoa(i) + "]"
		if err := s.Items.validate(v.Index(i).Interface(), itemPath); err != nil {
			return err
		}
	}

	return nil
}

// validateObject checks required fields in declared order, then validates
// each known property that is present.
func (s JSON) validateObject(value any, path string) error {
	objMap, ok := value.(map[string]any)
	if !ok {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal object: %w", err)
		}
		if err := json.Unmarshal(data, &objMap); err != nil {
			return fmt.Errorf("failed to unmarshal object: %w", err)
		}
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	for _, name := range s.PropertyOrder() {
		val, exists := objMap[name]
		if !exists {
			if required[name] {
				return &ValidationError{Path: join(path, name), Reason: "required field is missing"}
			}
			continue
		}
		if err := s.Properties[name].validate(val, join(path, name)); err != nil {
			return err
		}
	}

	// Required names without a declared property schema still have to be present.
	for _, name := range s.Required {
		if _, declared := s.Properties[name]; declared {
			continue
		}
		if _, exists := objMap[name]; !exists {
			return &ValidationError{Path: join(path, name), Reason: "required field is missing"}
		}
	}

	return nil
}

// validateEnum validates that the value is one of the allowed enum values.
// Comparison is exact, so string enums are case-sensitive.
func (s JSON) validateEnum(value any, path string) error {
	for _, enumVal := range s.Enum {
		if reflect.DeepEqual(value, enumVal) {
			return nil
		}
	}
	return &ValidationError{Path: path, Reason: fmt.Sprintf("value %q is not one of the allowed values %v", fmt.Sprint(value), s.Enum)}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func toFloat(value any) (float64, bool) {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	default:
		return 0, false
	}
}

// describe names a decoded JSON value's type the way JSON would.
func describe(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64, int32:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
