package vanguard

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/zero-day-ai/vanguard"

// auditMetrics holds the OpenTelemetry instruments for audits.
// They are created once in New and reused for every call.
type auditMetrics struct {
	// count increments once per audit, with the outcome as an attribute.
	count metric.Int64Counter

	// duration records end-to-end audit time in milliseconds.
	duration metric.Float64Histogram
}

func newAuditMetrics(meter metric.Meter) (*auditMetrics, error) {
	m := &auditMetrics{}
	var err error

	m.count, err = meter.Int64Counter(
		"vanguard.audit.count",
		metric.WithDescription("Number of audits performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create count counter: %w", err)
	}

	m.duration, err = meter.Float64Histogram(
		"vanguard.audit.duration",
		metric.WithDescription("Audit duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return m, nil
}
