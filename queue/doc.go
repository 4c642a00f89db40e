// Package queue provides Redis-based queue primitives for running audits out
// of process.
//
// Submitters push a Job onto the audit queue and wait on the job's result
// channel; workers (see package worker) pop jobs, run one audit each, and
// publish a Result. Results are delivered over pub/sub only and are never
// stored.
//
// # Redis Key Schema
//
// Every key is namespaced by a prefix (default "vanguard"):
//   - <prefix>:audits:queue - List of pending jobs (LPUSH/BRPOP)
//   - <prefix>:results:<jobID> - Pub/Sub channel for one job's result
//   - <prefix>:worker:<id>:heartbeat - String with 30s TTL per worker
//   - <prefix>:workers - Integer counter of running workers
//
// # Usage
//
//	client, err := queue.NewRedisClient(queue.RedisOptions{
//		URL:    "redis://localhost:6379",
//		Prefix: "vanguard",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := queue.Submit(ctx, client, queue.NewJob("Django REST API with PostgreSQL"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.HasError() {
//		fmt.Println(result.Message)
//	}
package queue
