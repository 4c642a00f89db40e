package audit

import (
	"encoding/json"
	"fmt"
)

// Severity is the closed risk ranking attached to a threat vector.
// Values are case-sensitive; nothing outside the four constants below is valid.
type Severity string

const (
	// SeverityCritical indicates a critical issue requiring immediate attention.
	// Examples: remote code execution, complete system compromise
	SeverityCritical Severity = "Critical"

	// SeverityHigh indicates a high-impact issue.
	// Examples: privilege escalation, significant data exposure
	SeverityHigh Severity = "High"

	// SeverityMedium indicates a moderate issue.
	// Examples: limited information disclosure, partial DoS
	SeverityMedium Severity = "Medium"

	// SeverityLow indicates a minor issue.
	SeverityLow Severity = "Low"
)

// IsValid returns true if the severity level is one of the four known values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// UnmarshalJSON rejects any value outside the closed enumeration.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("severity must be a string: %w", err)
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a string into a Severity value.
// Returns an error if the string is not an exact match for a known level.
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %q", s)
	}
	return severity, nil
}

// AllSeverities returns all valid severity levels in order from critical to low.
func AllSeverities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityMedium,
		SeverityLow,
	}
}

func severityNames() []string {
	all := AllSeverities()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.String()
	}
	return names
}
