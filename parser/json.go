package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotObject is returned by DecodeObject when the text is valid JSON but
// its top-level value is not an object.
var ErrNotObject = errors.New("top-level JSON value is not an object")

// ParseJSON parses single JSON object using generics
func ParseJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return &result, nil
}

// ExtractJSONObject strips markdown code fences and surrounding prose from
// generated text, returning the span from the first '{' to the last '}'.
// Text that already begins with a non-object JSON value (array, string,
// number) or has no such span is returned trimmed but otherwise unchanged.
func ExtractJSONObject(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```JSON")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if startsNonObjectValue(content) {
		return content
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}

	return content
}

func startsNonObjectValue(content string) bool {
	if content == "" {
		return false
	}
	c := content[0]
	return c == '[' || c == '"' || c == '-' || (c >= '0' && c <= '9')
}

// DecodeObject decodes text holding exactly one JSON object into a generic
// map. Numbers decode as float64. A syntax error is returned wrapped; a
// well-formed non-object value yields ErrNotObject.
func DecodeObject(content string) (map[string]any, error) {
	var value any
	if err := json.Unmarshal([]byte(content), &value); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}
