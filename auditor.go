package vanguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zero-day-ai/vanguard/audit"
	"github.com/zero-day-ai/vanguard/llm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// maxLoggedRaw bounds how much of a rejected response is written to debug logs.
const maxLoggedRaw = 2048

// outcomeSuccess is the metric outcome for an audit that produced a Response.
// Failed audits use the audit error kind.
const outcomeSuccess = "success"

// Auditor runs end-to-end audits: validate input, generate, parse.
//
// An Auditor holds configuration and instruments only. It is safe for
// concurrent use and keeps nothing between calls.
type Auditor struct {
	client  *audit.Client
	parser  *audit.Parser
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *auditMetrics
}

// New creates an Auditor over the given generation backend.
//
// Example:
//
//	auditor, err := vanguard.New(gen,
//	    vanguard.WithModel("gemini-3-pro-preview"),
//	    vanguard.WithVariant(audit.VariantStandard),
//	)
func New(gen llm.Generator, opts ...Option) (*Auditor, error) {
	if gen == nil {
		return nil, errors.New("vanguard: generator is required")
	}

	cfg := &auditorConfig{
		variant: audit.DefaultVariant,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.variant.IsValid() {
		return nil, fmt.Errorf("vanguard: unknown schema variant %q", cfg.variant)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracerProvider == nil {
		cfg.tracerProvider = noop.NewTracerProvider()
	}
	if cfg.meterProvider == nil {
		cfg.meterProvider = metricnoop.NewMeterProvider()
	}

	metrics, err := newAuditMetrics(cfg.meterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("vanguard: %w", err)
	}

	return &Auditor{
		client: audit.NewClient(gen,
			audit.WithModel(cfg.model),
			audit.WithVariant(cfg.variant),
			audit.WithRequestOptions(cfg.requestOpts...),
		),
		parser:  audit.NewParser(cfg.variant),
		logger:  cfg.logger,
		tracer:  cfg.tracerProvider.Tracer(instrumentationName),
		metrics: metrics,
	}, nil
}

// Model returns the backend model identifier used for audits.
func (a *Auditor) Model() string {
	return a.client.Model()
}

// Variant returns the schema variant used for audits.
func (a *Auditor) Variant() audit.Variant {
	return a.client.Variant()
}

// Audit generates a security audit for description.
//
// A blank description fails with audit.ErrBlankDescription before any
// backend call. Otherwise exactly one backend call is made and its text is
// parsed; any failure is returned as an *audit.Error and is final for this
// call. The returned Response must be treated as read-only.
func (a *Auditor) Audit(ctx context.Context, description string) (*audit.Response, error) {
	if strings.TrimSpace(description) == "" {
		return nil, &audit.Error{Op: "Auditor.Audit", Kind: audit.KindValidation, Err: audit.ErrBlankDescription}
	}

	id := uuid.NewString()
	start := time.Now()

	ctx, span := a.tracer.Start(ctx, "vanguard.audit",
		trace.WithAttributes(
			attribute.String("audit.id", id),
			attribute.String("audit.model", a.Model()),
			attribute.String("audit.variant", a.Variant().String()),
		),
	)
	defer span.End()

	logger := a.logger.With(
		"audit_id", id,
		"model", a.Model(),
		"variant", a.Variant().String(),
	)
	logger.InfoContext(ctx, "audit started", "description_length", len(description))

	resp, err := a.run(ctx, description)
	a.record(ctx, span, logger, time.Since(start), resp, err)

	return resp, err
}

func (a *Auditor) run(ctx context.Context, description string) (*audit.Response, error) {
	raw, err := a.client.Generate(ctx, description)
	if err != nil {
		return nil, err
	}
	return a.parser.Parse(raw)
}

// record emits the span status, metrics, and log lines for one finished audit.
func (a *Auditor) record(ctx context.Context, span trace.Span, logger *slog.Logger, elapsed time.Duration, resp *audit.Response, err error) {
	durationMs := float64(elapsed.Microseconds()) / 1000.0
	outcome := outcomeSuccess
	if err != nil {
		outcome = audit.KindOf(err)
	}

	attrs := metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("variant", a.Variant().String()),
	)
	a.metrics.count.Add(ctx, 1, attrs)
	a.metrics.duration.Record(ctx, durationMs, attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.WarnContext(ctx, "audit failed",
			"error_kind", outcome,
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)

		var e *audit.Error
		if errors.As(err, &e) && e.Raw != "" {
			logger.DebugContext(ctx, "rejected response",
				"field", e.Field,
				"raw", truncate(e.Raw, maxLoggedRaw),
			)
		}
		return
	}

	span.SetAttributes(attribute.Int("audit.report_count", len(resp.BugBountyReports)))
	span.SetStatus(codes.Ok, "")
	logger.InfoContext(ctx, "audit completed",
		"duration_ms", elapsed.Milliseconds(),
		"threats", len(resp.ThreatModel),
		"reports", len(resp.BugBountyReports),
	)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "...(truncated)"
}
