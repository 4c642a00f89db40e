// Package vanguard generates AI-assisted security audits of a described
// target system.
//
// A user supplies a free-text description of a system ("E-commerce app with a
// Node.js backend, MongoDB, S3 storage"). Vanguard sends it to a generative
// model under a strict JSON schema, validates whatever comes back, and returns
// a typed audit: inferred technology stack, threat model with severities,
// reconnaissance plan, feature-level weaknesses, and submission-ready
// bug-bounty reports.
//
// Vanguard never performs reconnaissance or exploitation. Every command and
// payload in an audit is display text for a human operator.
//
// # Getting Started
//
//	gen, err := gemini.New(ctx, gemini.Config{APIKey: os.Getenv("API_KEY")})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	auditor, err := vanguard.New(gen,
//		vanguard.WithVariant(audit.VariantPoC),
//		vanguard.WithLogger(logger),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := auditor.Audit(ctx, description)
//	if err != nil {
//		fmt.Println(audit.UserMessage(err))
//		return
//	}
//	for _, report := range resp.BugBountyReports {
//		fmt.Println(report.SubmissionText())
//	}
//
// # Pipeline
//
// Each call to Audit is independent: one backend call, one parse, one result.
// Failures are terminal for that call and are never retried. The caller may
// simply call Audit again.
//
//   - audit.Client composes the schema-constrained request and returns raw text
//   - audit.Parser decodes and validates that text against the same schema
//   - audit.Response is the read-only result handed to renderers
//
// # Observability
//
// Every audit opens a "vanguard.audit" span and records the
// "vanguard.audit.count" and "vanguard.audit.duration" metrics through the
// configured OpenTelemetry providers. Log records carry audit_id, model, and
// variant.
//
// # Subpackages
//
//   - audit: schema, generation client, parser, response model, export
//   - schema: JSON Schema construction and validation
//   - parser: JSON extraction from generated text
//   - llm: backend-neutral generation contract; llm/gemini implements it
//   - queue, worker: Redis-backed audit jobs for running audits out of process
//   - config: YAML and environment configuration
package vanguard
