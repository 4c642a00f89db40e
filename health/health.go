package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Health states.
const (
	StateHealthy   = "healthy"
	StateDegraded  = "degraded"
	StateUnhealthy = "unhealthy"
)

// DefaultTimeout bounds checks that are given a context without a deadline.
const DefaultTimeout = 5 * time.Second

// Status is the outcome of one or more checks.
type Status struct {
	// Name identifies the check, e.g. "credential" or "queue".
	Name string `json:"name,omitempty"`

	// State is StateHealthy, StateDegraded, or StateUnhealthy.
	State string `json:"state"`

	// Message describes the state for a human.
	Message string `json:"message,omitempty"`

	// Details carries diagnostic values. Secrets are never placed here.
	Details map[string]any `json:"details,omitempty"`
}

// IsHealthy returns true if the state is StateHealthy.
func (s Status) IsHealthy() bool { return s.State == StateHealthy }

// IsDegraded returns true if the state is StateDegraded.
func (s Status) IsDegraded() bool { return s.State == StateDegraded }

// IsUnhealthy returns true if the state is StateUnhealthy.
func (s Status) IsUnhealthy() bool { return s.State == StateUnhealthy }

func healthy(name, msg string, details map[string]any) Status {
	return Status{Name: name, State: StateHealthy, Message: msg, Details: details}
}

func degraded(name, msg string, details map[string]any) Status {
	return Status{Name: name, State: StateDegraded, Message: msg, Details: details}
}

func unhealthy(name, msg string, details map[string]any) Status {
	return Status{Name: name, State: StateUnhealthy, Message: msg, Details: details}
}

// CredentialCheck reports whether a backend credential is configured.
// The value itself is never echoed.
func CredentialCheck(name, value string) Status {
	if value == "" {
		return unhealthy("credential", fmt.Sprintf("%s is not set", name), nil)
	}
	return healthy("credential", fmt.Sprintf("%s is set", name), nil)
}

// WorkerCounter is the part of the queue client QueueCheck needs.
type WorkerCounter interface {
	GetWorkerCount(ctx context.Context) (int, error)
}

// QueueCheck verifies the queue is reachable. It is degraded when no worker
// is registered, since submitted jobs would wait until one starts.
func QueueCheck(ctx context.Context, q WorkerCounter) Status {
	if q == nil {
		return unhealthy("queue", "no queue client configured", nil)
	}

	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	count, err := q.GetWorkerCount(ctx)
	if err != nil {
		return unhealthy("queue", "queue is unreachable", map[string]any{"error": err.Error()})
	}

	details := map[string]any{"workers": count}
	if count <= 0 {
		return degraded("queue", "queue is reachable but no workers are registered", details)
	}
	return healthy("queue", fmt.Sprintf("queue is reachable with %d worker(s)", count), details)
}

// NetworkCheck verifies TCP connectivity to addr ("host:port").
func NetworkCheck(ctx context.Context, addr string) Status {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return unhealthy("network", fmt.Sprintf("invalid address %q", addr), map[string]any{"error": err.Error()})
	}

	ctx, cancel := withDefaultTimeout(ctx)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return unhealthy("network", fmt.Sprintf("failed to connect to %s", addr), map[string]any{
			"address": addr,
			"error":   err.Error(),
		})
	}
	_ = conn.Close()

	return healthy("network", fmt.Sprintf("connected to %s", addr), nil)
}

// FileCheck verifies that path exists. A missing optional file is degraded
// rather than unhealthy.
func FileCheck(path string, optional bool) Status {
	if path == "" {
		return unhealthy("file", "path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		kind := "file"
		if info.IsDir() {
			kind = "directory"
		}
		return healthy("file", fmt.Sprintf("%s %q exists", kind, path), nil)
	case os.IsNotExist(err) && optional:
		return degraded("file", fmt.Sprintf("%q not found, using defaults", path), map[string]any{"path": path})
	case os.IsNotExist(err):
		return unhealthy("file", fmt.Sprintf("%q does not exist", path), map[string]any{"path": path})
	default:
		return unhealthy("file", fmt.Sprintf("failed to stat %q", path), map[string]any{
			"path":  path,
			"error": err.Error(),
		})
	}
}

// Combine aggregates checks into one Status.
func Combine(checks ...Status) Status {
	if len(checks) == 0 {
		return healthy("", "no checks provided", nil)
	}

	var failed, slow []string
	for _, c := range checks {
		label := c.Message
		if c.Name != "" {
			label = c.Name + ": " + c.Message
		}
		switch c.State {
		case StateUnhealthy:
			failed = append(failed, label)
		case StateDegraded:
			slow = append(slow, label)
		}
	}

	switch {
	case len(failed) > 0:
		return unhealthy("", fmt.Sprintf("%d check(s) failed", len(failed)), map[string]any{
			"total":         len(checks),
			"failed_checks": failed,
		})
	case len(slow) > 0:
		return degraded("", fmt.Sprintf("%d check(s) degraded", len(slow)), map[string]any{
			"total":           len(checks),
			"degraded_checks": slow,
		})
	default:
		return healthy("", fmt.Sprintf("all %d check(s) passed", len(checks)), nil)
	}
}

func withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}
