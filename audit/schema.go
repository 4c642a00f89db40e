package audit

import "github.com/zero-day-ai/vanguard/schema"

// Schema returns the Audit Schema for a variant. It is a pure value and
// cannot fail; the Generation Client sends it as the output constraint and
// the parser validates against the same value.
func Schema(v Variant) schema.JSON {
	return schema.Object(map[string]schema.JSON{
		"techStack":          techStackSchema(),
		"threatModel":        schema.Array(threatVectorSchema()),
		"reconPlan":          schema.Array(reconStepSchema()),
		"vulnerabilityLogic": schema.Array(vulnerabilityLogicSchema()),
		"bugBountyReports":   schema.Array(bugBountyReportSchema(v)),
		"summary":            schema.NonEmptyString("Executive summary of the audit."),
	}, "techStack", "threatModel", "reconPlan", "vulnerabilityLogic", "bugBountyReports", "summary")
}

func techStackSchema() schema.JSON {
	return schema.Object(map[string]schema.JSON{
		"os":        schema.StringWithDesc("Inferred operating system."),
		"webServer": schema.StringWithDesc("Inferred web server."),
		"database":  schema.StringWithDesc("Inferred database."),
		"frontend":  schema.StringWithDesc("Inferred frontend framework."),
		"backend":   schema.StringWithDesc("Inferred backend framework."),
	}, "os", "webServer", "database", "frontend", "backend")
}

func threatVectorSchema() schema.JSON {
	return schema.Object(map[string]schema.JSON{
		"vector":      schema.NonEmptyString("Name of the attack surface."),
		"severity":    schema.StringEnum("Risk ranking.", severityNames()...),
		"description": schema.String(),
	}, "vector", "severity", "description")
}

func reconStepSchema() schema.JSON {
	return schema.Object(map[string]schema.JSON{
		"tool":      schema.StringWithDesc("Short tool name."),
		"command":   schema.StringWithDesc("Literal command line or HTTP request."),
		"objective": schema.String(),
	}, "tool", "command", "objective")
}

func vulnerabilityLogicSchema() schema.JSON {
	return schema.Object(map[string]schema.JSON{
		"feature":    schema.String(),
		"weakness":   schema.String(),
		"mitigation": schema.String(),
	}, "feature", "weakness", "mitigation")
}

func bugBountyReportSchema(v Variant) schema.JSON {
	props := map[string]schema.JSON{
		"title":             schema.String(),
		"vulnerabilityType": schema.String(),
		"impact":            schema.StringWithDesc("Business and technical risk."),
		"stepsToReproduce":  schema.Array(schema.String()).WithDescription("Ordered reproduction steps."),
		"validationPayload": schema.StringWithDesc("CURL command, Python snippet, or Burp Suite request proving the issue."),
		"pocExplainer":      schema.StringWithDesc("How to prove the finding."),
		"expectedOutcome":   schema.StringWithDesc("What a successful validation looks like."),
	}

	required := []string{"title", "vulnerabilityType", "impact", "stepsToReproduce", "validationPayload"}
	if v.requiresPoC() {
		required = append(required, "pocExplainer", "expectedOutcome")
	}

	return schema.Object(props, required...)
}
