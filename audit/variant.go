package audit

import (
	"fmt"
	"strings"
)

// Variant selects which bug-bounty fields the deployment requires. The same
// variant drives the schema, the system instruction, and the parser, so the
// three always agree.
type Variant string

const (
	// VariantPoC requires pocExplainer and expectedOutcome on every report.
	VariantPoC Variant = "poc"

	// VariantStandard leaves pocExplainer and expectedOutcome optional.
	VariantStandard Variant = "standard"

	// DefaultVariant is used when no variant is configured.
	DefaultVariant = VariantPoC
)

// IsValid returns true if the variant is known.
func (v Variant) IsValid() bool {
	switch v {
	case VariantPoC, VariantStandard:
		return true
	default:
		return false
	}
}

// String returns the string representation of the variant.
func (v Variant) String() string {
	return string(v)
}

// ParseVariant parses a configured variant name. An empty name selects DefaultVariant.
func ParseVariant(s string) (Variant, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultVariant, nil
	}
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	if !v.IsValid() {
		return "", fmt.Errorf("unknown schema variant %q (want %q or %q)", s, VariantPoC, VariantStandard)
	}
	return v, nil
}

func (v Variant) requiresPoC() bool {
	return v != VariantStandard
}

const instructionHeader = `You are a world-class Cybersecurity Penetration Tester and Web Security Auditor.
Your objective is to perform a detailed technical analysis and generate SUBMISSION-READY Bug Bounty reports`

const instructionDisclaimer = `DISCLAIMER: This report is for educational and authorized auditing purposes only.`

// SystemInstruction returns the persona and rules sent with every request.
func (v Variant) SystemInstruction() string {
	var rules []string
	rules = append(rules, "Tone: Clinical, professional, and report-oriented.")
	if v.requiresPoC() {
		rules = append(rules, "Proof of Concept (PoC): For every finding, you must explain exactly HOW to prove it (pocExplainer) and what the SUCCESSFUL validation looks like (expectedOutcome).")
	}
	rules = append(rules,
		"Bug Bounty Reports: For each major vulnerability, provide a report formatted for platforms like HackerOne.",
		"Steps to Reproduce: Must be clear, numbered, and technically accurate.",
		"Validation Payload: Provide a specific CURL command, Python snippet, or Burp Suite request that proves the vulnerability.",
	)

	var b strings.Builder
	b.WriteString(instructionHeader)
	if v.requiresPoC() {
		b.WriteString(" with explicit Proof of Concept (PoC) validation logic")
	}
	b.WriteString(".\n\nRULES:\n")
	for i, rule := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}
	b.WriteString("\n")
	b.WriteString(instructionDisclaimer)
	return b.String()
}

// Prompt returns the user content for a target description.
func (v Variant) Prompt(description string) string {
	if v.requiresPoC() {
		return `Conduct a full security audit, including "Proof of Concept" (PoC) validation details for: ` + description
	}
	return "Conduct a full security audit for: " + description
}
