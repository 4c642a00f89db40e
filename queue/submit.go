package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewJob creates a job with a fresh ID and the current submission time.
func NewJob(description string) Job {
	return Job{
		ID:          uuid.NewString(),
		Description: description,
		SubmittedAt: time.Now().UnixMilli(),
	}
}

// Submit pushes job to the audit queue and waits for its result.
//
// It subscribes to the job's result channel before pushing so that a fast
// worker cannot publish before anyone is listening. It returns when the
// first result arrives or ctx is done.
func Submit(ctx context.Context, client Client, job Job) (*Result, error) {
	if err := job.IsValid(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results, err := client.Subscribe(subCtx, job.ID)
	if err != nil {
		return nil, err
	}

	if err := client.Push(ctx, job); err != nil {
		return nil, err
	}

	select {
	case result, ok := <-results:
		if !ok {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("waiting for job %s: %w", job.ID, ctx.Err())
			}
			return nil, fmt.Errorf("result subscription for job %s closed", job.ID)
		}
		return &result, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for job %s: %w", job.ID, ctx.Err())
	}
}
