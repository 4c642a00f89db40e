// Package worker runs audits from the Redis audit queue.
//
// A worker process pops queue.Job values, runs one independent audit per
// job through an Auditor, and publishes a queue.Result on the job's result
// channel. Failed audits are published as error results and are never
// retried; the submitter decides whether to resubmit.
//
// # Usage
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	err := worker.Run(ctx, auditor, client, worker.Options{
//		Concurrency: 4,
//		Logger:      logger,
//	})
//
// # Lifecycle
//
// Run increments the shared worker counter on start and decrements it on
// exit, refreshes <prefix>:worker:<id>:heartbeat every HeartbeatInterval, and
// stops taking jobs as soon as its context is cancelled. Audits already
// running get ShutdownTimeout to finish.
package worker
