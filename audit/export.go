package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ExportFormat represents the format for exporting an audit.
type ExportFormat string

const (
	// FormatText exports every bug-bounty report as a submission block.
	FormatText ExportFormat = "text"

	// FormatMarkdown exports the full audit as a Markdown document.
	FormatMarkdown ExportFormat = "markdown"

	// FormatJSON exports the audit as indented JSON.
	FormatJSON ExportFormat = "json"
)

// IsValid returns true if the export format is valid.
func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatText, FormatMarkdown, FormatJSON:
		return true
	default:
		return false
	}
}

// String returns the string representation of the export format.
func (f ExportFormat) String() string {
	return string(f)
}

// FileExtension returns the file extension for the export format.
func (f ExportFormat) FileExtension() string {
	switch f {
	case FormatText:
		return ".txt"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ""
	}
}

// ParseExportFormat parses a format name, accepting "md" for markdown.
func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		f = FormatMarkdown
	}
	if !f.IsValid() {
		return "", fmt.Errorf("unknown export format %q", s)
	}
	return f, nil
}

const reportSeparator = "\n\n---\n\n"

// SubmissionText renders the report in the fixed plain-text template used
// for bug-bounty submissions. Sections always appear in the same order; the
// PoC Explainer and Expected Outcome sections are omitted when empty. The
// result is trimmed and depends only on the report's field values.
func (r BugBountyReport) SubmissionText() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Title: %s\n", r.Title)
	fmt.Fprintf(&b, "# Vulnerability Type: %s\n", r.VulnerabilityType)

	b.WriteString("\n## Impact:\n")
	b.WriteString(r.Impact)
	b.WriteString("\n")

	b.WriteString("\n## Steps to Reproduce:\n")
	for i, step := range r.StepsToReproduce {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, step)
	}
	b.WriteString("\n")

	if r.PocExplainer != "" {
		b.WriteString("\n## PoC Explainer:\n")
		b.WriteString(r.PocExplainer)
		b.WriteString("\n")
	}

	b.WriteString("\n## Proof of Concept / Validation:\n")
	b.WriteString(r.ValidationPayload)
	b.WriteString("\n")

	if r.ExpectedOutcome != "" {
		b.WriteString("\n## Expected Outcome:\n")
		b.WriteString(r.ExpectedOutcome)
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}

// Export writes r to w in the given format.
func Export(w io.Writer, r *Response, format ExportFormat) error {
	if r == nil {
		return fmt.Errorf("export: nil response")
	}

	switch format {
	case FormatText:
		_, err := io.WriteString(w, submissionTexts(r))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(r)
	default:
		return fmt.Errorf("export: unsupported format %q", format)
	}
}

func submissionTexts(r *Response) string {
	blocks := make([]string, len(r.BugBountyReports))
	for i, report := range r.BugBountyReports {
		blocks[i] = report.SubmissionText()
	}
	return strings.Join(blocks, reportSeparator) + "\n"
}

// Markdown renders the full audit as a Markdown document.
func Markdown(r *Response) string {
	var b strings.Builder

	b.WriteString("# Security Audit\n\n")

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n")

	b.WriteString("## Technology Stack\n\n")
	b.WriteString("| Component | Detected |\n|---|---|\n")
	for _, row := range [][2]string{
		{"Operating System", r.TechStack.OS},
		{"Web Server", r.TechStack.WebServer},
		{"Database", r.TechStack.Database},
		{"Frontend", r.TechStack.Frontend},
		{"Backend", r.TechStack.Backend},
	} {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], cell(row[1]))
	}
	b.WriteString("\n")

	b.WriteString("## Threat Model\n\n")
	counts := r.SeverityCounts()
	parts := make([]string, 0, 4)
	for _, s := range AllSeverities() {
		parts = append(parts, fmt.Sprintf("%s: %d", s, counts[s]))
	}
	b.WriteString(strings.Join(parts, " · "))
	b.WriteString("\n\n")
	if len(r.ThreatModel) > 0 {
		b.WriteString("| Severity | Vector | Description |\n|---|---|---|\n")
		for _, t := range r.ThreatModel {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", t.Severity, cell(t.Vector), cell(t.Description))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Reconnaissance Plan\n\n")
	for i, step := range r.ReconPlan {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, step.Tool)
		if step.Objective != "" {
			b.WriteString(step.Objective)
			b.WriteString("\n\n")
		}
		b.WriteString(fence(step.Command))
		b.WriteString("\n\n")
	}

	b.WriteString("## Vulnerability Logic\n\n")
	for _, v := range r.VulnerabilityLogic {
		fmt.Fprintf(&b, "### %s\n\n", v.Feature)
		fmt.Fprintf(&b, "- **Weakness:** %s\n", v.Weakness)
		fmt.Fprintf(&b, "- **Mitigation:** %s\n\n", v.Mitigation)
	}

	b.WriteString("## Bug Bounty Reports\n\n")
	for i, report := range r.BugBountyReports {
		if i > 0 {
			b.WriteString("---\n\n")
		}
		b.WriteString(fence(report.SubmissionText()))
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// cell makes a value safe for a single Markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// fence wraps text in a code fence longer than any backtick run inside it.
func fence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	marker := strings.Repeat("`", max(3, longest+1))
	return marker + "\n" + s + "\n" + marker
}
