// Package schema provides JSON Schema types and validation utilities.
//
// A JSON value serves two purposes: it is sent to a generation backend as the
// output constraint for structured responses, and it re-validates whatever the
// backend returns. A backend's own schema enforcement is treated as advisory.
//
// # Building Schemas
//
//	threat := schema.Object(map[string]schema.JSON{
//		"vector":   schema.NonEmptyString("Name of the attack surface"),
//		"severity": schema.StringEnum("Risk ranking", "Critical", "High", "Medium", "Low"),
//	}, "vector", "severity")
//
//	threats := schema.Array(threat)
//
// # Validation
//
// Validate works on decoded JSON (map[string]any, []any, string, float64, bool)
// as well as on Go values. It stops at the first problem and reports it as a
// *ValidationError whose Path names the offending field:
//
//	err := threats.Validate(decoded)
//	var verr *schema.ValidationError
//	if errors.As(err, &verr) {
//		fmt.Println(verr.Path) // threatModel[1].severity
//	}
//
// Object fields are visited in PropertyOrder (required fields as declared,
// then optional fields by name), so the reported field is deterministic.
// Enum comparison is exact and therefore case-sensitive.
package schema
