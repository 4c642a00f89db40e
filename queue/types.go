package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/zero-day-ai/vanguard/audit"
)

// Job is one audit request submitted to the audit queue.
type Job struct {
	// ID is a UUID that names the job and its result channel.
	ID string `json:"id"`

	// Description is the free-text description of the target system.
	Description string `json:"description"`

	// Variant is the schema variant the submitter expects. Empty means the
	// worker's configured variant.
	Variant audit.Variant `json:"variant,omitempty"`

	// TraceID is the distributed tracing trace ID of the submitter, if any.
	TraceID string `json:"trace_id,omitempty"`

	// SubmittedAt is the Unix timestamp in milliseconds when the job was submitted.
	SubmittedAt int64 `json:"submitted_at"`
}

// Result is the outcome of one Job, published on the job's result channel.
// Exactly one of Response and Error is set.
type Result struct {
	// JobID correlates this result with the original job.
	JobID string `json:"job_id"`

	// Response is the validated audit. Nil if Error is set.
	Response *audit.Response `json:"response,omitempty"`

	// Error is the internal error text if the audit failed.
	Error string `json:"error,omitempty"`

	// ErrorKind is the audit error kind, e.g. "schema_violation".
	ErrorKind string `json:"error_kind,omitempty"`

	// Message is the human-readable failure message for the submitter.
	Message string `json:"message,omitempty"`

	// Variant is the schema variant the worker validated against.
	Variant audit.Variant `json:"variant,omitempty"`

	// WorkerID is the unique identifier of the worker that ran the audit.
	WorkerID string `json:"worker_id"`

	// StartedAt is the Unix timestamp in milliseconds when the audit started.
	StartedAt int64 `json:"started_at"`

	// CompletedAt is the Unix timestamp in milliseconds when the audit finished.
	CompletedAt int64 `json:"completed_at"`
}

// IsValid checks if the Job has all required fields populated correctly.
func (j *Job) IsValid() error {
	if j.ID == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(j.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if j.Variant != "" && !j.Variant.IsValid() {
		return fmt.Errorf("unknown variant %q", j.Variant)
	}
	if j.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", j.SubmittedAt)
	}
	return nil
}

// Age returns the duration since this job was submitted.
func (j *Job) Age() time.Duration {
	if j.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-j.SubmittedAt) * time.Millisecond
}

// HasError returns true if the result represents a failed audit.
func (r *Result) HasError() bool {
	return r.Error != ""
}

// Duration returns the wall-clock time the worker spent on the audit.
func (r *Result) Duration() time.Duration {
	if r.StartedAt <= 0 || r.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(r.CompletedAt-r.StartedAt) * time.Millisecond
}

// IsValid checks if the Result has all required fields populated correctly.
func (r *Result) IsValid() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if r.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if r.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", r.StartedAt)
	}
	if r.CompletedAt < r.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", r.CompletedAt, r.StartedAt)
	}
	if r.HasError() && r.Response != nil {
		return fmt.Errorf("result cannot carry both a response and an error")
	}
	if !r.HasError() && r.Response == nil {
		return fmt.Errorf("response is required when error is empty")
	}
	return nil
}
