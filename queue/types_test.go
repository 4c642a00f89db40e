package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zero-day-ai/vanguard/audit"
)

func TestJob_IsValid(t *testing.T) {
	valid := Job{ID: "job-1", Description: "Rails app", SubmittedAt: time.Now().UnixMilli()}

	tests := []struct {
		name    string
		mutate  func(j *Job)
		wantErr string
	}{
		{"valid", func(j *Job) {}, ""},
		{"valid with variant", func(j *Job) { j.Variant = audit.VariantStandard }, ""},
		{"missing id", func(j *Job) { j.ID = "" }, "id is required"},
		{"blank description", func(j *Job) { j.Description = "  \n" }, "description is required"},
		{"unknown variant", func(j *Job) { j.Variant = "extended" }, "unknown variant"},
		{"missing submitted_at", func(j *Job) { j.SubmittedAt = 0 }, "submitted_at must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := valid
			tt.mutate(&j)
			err := j.IsValid()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestJob_Age(t *testing.T) {
	j := Job{SubmittedAt: time.Now().Add(-2 * time.Second).UnixMilli()}
	assert.GreaterOrEqual(t, j.Age(), 2*time.Second)
	assert.Equal(t, time.Duration(0), (&Job{}).Age())
}

func TestNewJob(t *testing.T) {
	a := NewJob("Rails app")
	b := NewJob("Rails app")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Positive(t, a.SubmittedAt)
	assert.NoError(t, a.IsValid())
}

func TestResult_IsValid(t *testing.T) {
	now := time.Now().UnixMilli()
	ok := Result{JobID: "j", Response: &audit.Response{}, WorkerID: "w", StartedAt: now, CompletedAt: now + 10}

	tests := []struct {
		name    string
		mutate  func(r *Result)
		wantErr string
	}{
		{"valid success", func(r *Result) {}, ""},
		{"valid failure", func(r *Result) { r.Response = nil; r.Error = "boom" }, ""},
		{"missing job id", func(r *Result) { r.JobID = "" }, "job_id is required"},
		{"missing worker", func(r *Result) { r.WorkerID = "" }, "worker_id is required"},
		{"completed before started", func(r *Result) { r.CompletedAt = now - 1 }, "cannot be before"},
		{"both set", func(r *Result) { r.Error = "boom" }, "both a response and an error"},
		{"neither set", func(r *Result) { r.Response = nil }, "response is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ok
			tt.mutate(&r)
			err := r.IsValid()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 10*time.Millisecond, ok.Duration())
	assert.Equal(t, time.Duration(0), (&Result{}).Duration())
}
