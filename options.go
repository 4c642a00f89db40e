package vanguard

import (
	"log/slog"

	"github.com/zero-day-ai/vanguard/audit"
	"github.com/zero-day-ai/vanguard/llm"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Auditor.
type Option func(*auditorConfig)

// auditorConfig holds configuration for an Auditor instance.
type auditorConfig struct {
	model          string
	variant        audit.Variant
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	requestOpts    []llm.CompletionOption
}

// WithModel sets the backend model identifier.
// If not provided, audit.DefaultModel is used.
func WithModel(model string) Option {
	return func(c *auditorConfig) {
		c.model = model
	}
}

// WithVariant sets the schema variant used for every audit.
// The variant drives the schema, the system instruction, and the parser together.
func WithVariant(v audit.Variant) Option {
	return func(c *auditorConfig) {
		c.variant = v
	}
}

// WithLogger sets a custom logger.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *auditorConfig) {
		c.logger = logger
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for audit spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *auditorConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for audit metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *auditorConfig) {
		c.meterProvider = mp
	}
}

// WithRequestOptions appends generation options applied to every request,
// e.g. llm.WithTemperature(0.2).
func WithRequestOptions(opts ...llm.CompletionOption) Option {
	return func(c *auditorConfig) {
		c.requestOpts = append(c.requestOpts, opts...)
	}
}
