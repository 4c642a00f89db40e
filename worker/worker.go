package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zero-day-ai/vanguard/audit"
	"github.com/zero-day-ai/vanguard/config"
	"github.com/zero-day-ai/vanguard/queue"
)

// Auditor runs one audit. *vanguard.Auditor satisfies it.
type Auditor interface {
	Audit(ctx context.Context, description string) (*audit.Response, error)
	Variant() audit.Variant
}

// Options configures the worker behavior.
type Options struct {
	// Concurrency is the number of worker goroutines to start.
	// If 0, uses value from Config or default (4).
	Concurrency int

	// ShutdownTimeout is the time to wait for in-flight audits on shutdown.
	// If 0, uses value from Config or default (30s).
	ShutdownTimeout time.Duration

	// HeartbeatInterval is the time between heartbeats.
	// If 0, uses value from Config or default (10s).
	HeartbeatInterval time.Duration

	// WorkerID identifies this process in results and heartbeats.
	// If empty, one is generated from hostname, PID, and a UUID.
	WorkerID string

	// Logger is the structured logger for worker operations.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Config is the worker section of vanguard.yaml. May be nil.
	Config *config.WorkerConfig
}

// Run consumes audit jobs from client until ctx is cancelled.
//
// Configuration priority (highest to lowest):
//  1. Explicit Options values (if non-zero)
//  2. vanguard.yaml worker section
//  3. Default values
//
// Each worker goroutine:
//  1. Pops a job from the audit queue
//  2. Runs exactly one audit for it
//  3. Publishes the result on the job's result channel
//
// When ctx is cancelled no new jobs are taken. Audits already running are
// given ShutdownTimeout to finish before their context is cancelled too.
// Run returns nil on a clean shutdown.
func Run(ctx context.Context, a Auditor, client queue.Client, opts Options) error {
	opts = applyConfig(opts)

	logger := opts.Logger.With(
		"worker_id", opts.WorkerID,
		"variant", a.Variant().String(),
	)

	logger.Info("worker starting", "concurrency", opts.Concurrency)

	if err := client.IncrementWorkerCount(ctx); err != nil {
		logger.Error("failed to increment worker count", "error", err)
	}

	// Ensure worker count is decremented on exit
	defer func() {
		// Use background context for cleanup since ctx may be cancelled
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		if err := client.DecrementWorkerCount(cleanupCtx); err != nil {
			logger.Error("failed to decrement worker count", "error", err)
		}
	}()

	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go runHeartbeat(heartbeatCtx, client, opts.WorkerID, opts.HeartbeatInterval, logger)

	// In-flight audits outlive ctx until the shutdown deadline.
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()

	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func(workerNum int) {
			defer wg.Done()
			workerLoop(ctx, workCtx, workerNum, a, client, opts.WorkerID, logger)
		}(i)
	}

	logger.Info("worker started", "workers", opts.Concurrency)

	<-ctx.Done()
	logger.Info("initiating graceful shutdown", "reason", context.Cause(ctx))

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		logger.Info("worker shutdown complete")
	case <-time.After(opts.ShutdownTimeout):
		logger.Warn("worker shutdown timeout exceeded", "timeout", opts.ShutdownTimeout)
		cancelWork()
		<-doneChan
	}

	return nil
}

// runHeartbeat sends periodic heartbeats to maintain worker health status.
// The first heartbeat is sent immediately.
func runHeartbeat(ctx context.Context, client queue.Client, workerID string, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Debug("heartbeat goroutine started")

	for {
		if err := client.Heartbeat(ctx, workerID); err != nil && ctx.Err() == nil {
			logger.Debug("heartbeat failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Debug("heartbeat goroutine stopped")
			return
		case <-ticker.C:
		}
	}
}

// workerLoop pops jobs until ctx is cancelled. Audits and result publishing
// run under workCtx.
func workerLoop(ctx, workCtx context.Context, workerNum int, a Auditor, client queue.Client, workerID string, logger *slog.Logger) {
	logger = logger.With("worker_num", workerNum)
	logger.Debug("worker loop started")

	for {
		select {
		case <-ctx.Done():
			logger.Debug("worker loop stopped", "reason", "context_cancelled")
			return
		default:
		}

		job, err := client.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("worker loop stopped", "reason", "context_error")
				return
			}
			logger.Error("failed to pop job", "error", err)
			continue
		}

		// Block timeout elapsed with no job
		if job == nil {
			continue
		}

		logger.Info("received job",
			"job_id", job.ID,
			"queue_wait_ms", job.Age().Milliseconds(),
		)

		result := processJob(workCtx, a, *job, workerID, logger)

		if err := client.Publish(workCtx, result); err != nil {
			logger.Error("failed to publish result", "job_id", job.ID, "error", err)
		}
	}
}

// processJob runs one audit and always returns a result. A failed audit is
// reported once and never retried.
func processJob(ctx context.Context, a Auditor, job queue.Job, workerID string, logger *slog.Logger) queue.Result {
	result := queue.Result{
		JobID:     job.ID,
		Variant:   a.Variant(),
		WorkerID:  workerID,
		StartedAt: time.Now().UnixMilli(),
	}
	logger = logger.With("job_id", job.ID)

	if err := job.IsValid(); err != nil {
		fail(&result, &audit.Error{Op: "worker.processJob", Kind: audit.KindValidation, Err: err})
		logger.Warn("invalid job", "error", err)
		return result
	}
	if job.Variant != "" && job.Variant != a.Variant() {
		err := fmt.Errorf("job requests variant %q but this worker serves %q", job.Variant, a.Variant())
		fail(&result, &audit.Error{Op: "worker.processJob", Kind: audit.KindValidation, Err: err})
		result.Message = err.Error()
		logger.Warn("variant mismatch", "requested", job.Variant.String())
		return result
	}

	resp, err := a.Audit(ctx, job.Description)
	if err != nil {
		fail(&result, err)
		logger.Warn("audit failed",
			"error_kind", result.ErrorKind,
			"duration_ms", result.CompletedAt-result.StartedAt,
		)
		return result
	}

	result.Response = resp
	result.CompletedAt = time.Now().UnixMilli()

	logger.Info("job completed",
		"duration_ms", result.CompletedAt-result.StartedAt,
		"reports", len(resp.BugBountyReports),
	)

	return result
}

func fail(result *queue.Result, err error) {
	result.Error = err.Error()
	result.ErrorKind = audit.KindOf(err)
	result.Message = audit.UserMessage(err)
	result.CompletedAt = time.Now().UnixMilli()
}

// generateWorkerID creates a unique identifier for this worker instance.
// Uses hostname + PID + UUID for uniqueness.
func generateWorkerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	pid := os.Getpid()

	// Add UUID suffix for additional uniqueness
	id := uuid.New().String()[:8]

	return fmt.Sprintf("%s-%d-%s", hostname, pid, id)
}

// applyConfig fills unset Options from the config section, then defaults.
func applyConfig(opts Options) Options {
	cfg := opts.Config

	if opts.Concurrency <= 0 {
		opts.Concurrency = cfg.GetConcurrency()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = cfg.GetShutdownTimeout()
	}
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = cfg.GetHeartbeatInterval()
	}
	if opts.WorkerID == "" {
		opts.WorkerID = generateWorkerID()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return opts
}
