package queue

import "strings"

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "vanguard"

// Keys builds the Redis key names for one deployment prefix.
type Keys struct {
	Prefix string
}

// NewKeys returns the key set for prefix, or DefaultPrefix if empty.
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keys{Prefix: prefix}
}

// Queue is the list holding pending audit jobs.
func (k Keys) Queue() string {
	return formatKeyName(k.Prefix, "audits", "queue")
}

// Results is the pub/sub channel for one job's result.
func (k Keys) Results(jobID string) string {
	return formatKeyName(k.Prefix, "results", jobID)
}

// Heartbeat is the health key of one worker.
func (k Keys) Heartbeat(workerID string) string {
	return formatKeyName(k.Prefix, "worker", workerID, "heartbeat")
}

// Workers is the counter of running workers.
func (k Keys) Workers() string {
	return formatKeyName(k.Prefix, "workers")
}

func formatKeyName(parts ...string) string {
	return strings.Join(parts, ":")
}
