package audit

// TechStack holds the inferred components of the target system.
// Every field is always present after parsing; an empty string means unknown.
type TechStack struct {
	OS        string `json:"os"`
	WebServer string `json:"webServer"`
	Database  string `json:"database"`
	Frontend  string `json:"frontend"`
	Backend   string `json:"backend"`
}

// ThreatVector is one predicted attack surface.
type ThreatVector struct {
	Vector      string   `json:"vector"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// ReconStep is one suggested reconnaissance action.
// Command is display-only text and is never executed.
type ReconStep struct {
	Tool      string `json:"tool"`
	Command   string `json:"command"`
	Objective string `json:"objective"`
}

// VulnerabilityLogic describes one feature-level weakness.
type VulnerabilityLogic struct {
	Feature    string `json:"feature"`
	Weakness   string `json:"weakness"`
	Mitigation string `json:"mitigation"`
}

// BugBountyReport is one submission-ready finding.
type BugBountyReport struct {
	Title             string `json:"title"`
	VulnerabilityType string `json:"vulnerabilityType"`
	Impact            string `json:"impact"`

	// StepsToReproduce is an ordered procedure; index 0 is step 1.
	StepsToReproduce []string `json:"stepsToReproduce"`

	// ValidationPayload is an opaque proof-of-concept string. Never executed.
	ValidationPayload string `json:"validationPayload"`

	// PocExplainer and ExpectedOutcome are required under VariantPoC and
	// optional under VariantStandard.
	PocExplainer    string `json:"pocExplainer,omitempty"`
	ExpectedOutcome string `json:"expectedOutcome,omitempty"`
}

// Response is the aggregate result of one audit.
//
// A Response is built once by Parse and must be treated as read-only by
// everything that receives it. Nothing retains it across audits.
type Response struct {
	TechStack TechStack `json:"techStack"`

	// ThreatModel order is presentation order only.
	ThreatModel []ThreatVector `json:"threatModel"`

	// ReconPlan order is the suggested execution order.
	ReconPlan []ReconStep `json:"reconPlan"`

	VulnerabilityLogic []VulnerabilityLogic `json:"vulnerabilityLogic"`
	BugBountyReports   []BugBountyReport    `json:"bugBountyReports"`
	Summary            string               `json:"summary"`
}

// SeverityCounts tallies the threat model by severity.
func (r *Response) SeverityCounts() map[Severity]int {
	counts := make(map[Severity]int, 4)
	for _, t := range r.ThreatModel {
		counts[t.Severity]++
	}
	return counts
}
