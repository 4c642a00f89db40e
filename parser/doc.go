// Package parser provides generic helpers for turning generated text into
// decoded JSON.
//
// Generative backends asked for JSON occasionally wrap the object in a
// markdown code fence or a sentence of prose. ExtractJSONObject strips that
// wrapping; everything else is left to encoding/json so malformed input is
// reported, never repaired.
package parser
