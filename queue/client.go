package queue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zero-day-ai/vanguard/parser"
)

// HeartbeatTTL is how long a worker heartbeat stays alive without renewal.
const HeartbeatTTL = 30 * time.Second

// Client defines the interface for interacting with the Redis audit queue.
type Client interface {
	// Push adds a job to the end of the audit queue (LPUSH).
	Push(ctx context.Context, job Job) error

	// Pop removes and returns a job from the front of the audit queue (BRPOP).
	// It returns nil, nil when no job arrived within the block timeout.
	Pop(ctx context.Context) (*Job, error)

	// Publish sends a result to its job's pub/sub channel.
	Publish(ctx context.Context, result Result) error

	// Subscribe creates a subscription to one job's result channel.
	// Returns a channel that receives results until ctx is cancelled.
	Subscribe(ctx context.Context, jobID string) (<-chan Result, error)

	// Heartbeat refreshes the health key for a worker with HeartbeatTTL.
	Heartbeat(ctx context.Context, workerID string) error

	// GetWorkerCount returns the number of running workers.
	GetWorkerCount(ctx context.Context) (int, error)

	// IncrementWorkerCount increments the worker count.
	IncrementWorkerCount(ctx context.Context) error

	// DecrementWorkerCount decrements the worker count.
	DecrementWorkerCount(ctx context.Context) error

	// Close closes the Redis connection.
	Close() error
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// Prefix namespaces every key (default DefaultPrefix).
	Prefix string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration

	// BlockTimeout bounds a single Pop so that callers can observe
	// cancellation between attempts.
	BlockTimeout time.Duration
}

// RedisClient implements the Client interface using go-redis/v9.
type RedisClient struct {
	client       *redis.Client
	keys         Keys
	blockTimeout time.Duration
}

// NewRedisClient creates a new Redis queue client with the given options.
func NewRedisClient(opts RedisOptions) (*RedisClient, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}

	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	if opts.BlockTimeout == 0 {
		opts.BlockTimeout = 2 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if opts.TLS != nil {
		redisOpts.TLSConfig = opts.TLS
	}
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client:       client,
		keys:         NewKeys(opts.Prefix),
		blockTimeout: opts.BlockTimeout,
	}, nil
}

// Keys returns the key names this client uses.
func (c *RedisClient) Keys() Keys {
	return c.keys
}

// Push adds a job to the end of the audit queue.
func (c *RedisClient) Push(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	queue := c.keys.Queue()
	if err := c.client.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("failed to push to queue %s: %w", queue, err)
	}

	return nil
}

// Pop removes and returns a job from the front of the audit queue.
func (c *RedisClient) Pop(ctx context.Context) (*Job, error) {
	queue := c.keys.Queue()

	// BRPOP returns [queue_name, value], or redis.Nil on timeout
	result, err := c.client.BRPop(ctx, c.blockTimeout, queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue %s: %w", queue, err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP result length: %d", len(result))
	}

	job, err := parser.ParseJSON[Job]([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return job, nil
}

// Publish sends a result to its job's pub/sub channel.
func (c *RedisClient) Publish(ctx context.Context, result Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	channel := c.keys.Results(result.JobID)
	if err := c.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to channel %s: %w", channel, err)
	}

	return nil
}

// Subscribe creates a subscription to one job's result channel.
func (c *RedisClient) Subscribe(ctx context.Context, jobID string) (<-chan Result, error) {
	channel := c.keys.Results(jobID)
	pubsub := c.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to channel %s: %w", channel, err)
	}

	resultChan := make(chan Result)

	go func() {
		defer close(resultChan)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				result, err := parser.ParseJSON[Result]([]byte(msg.Payload))
				if err != nil {
					continue
				}

				select {
				case resultChan <- *result:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return resultChan, nil
}

// Heartbeat refreshes the health key for a worker with HeartbeatTTL.
func (c *RedisClient) Heartbeat(ctx context.Context, workerID string) error {
	key := c.keys.Heartbeat(workerID)
	if err := c.client.Set(ctx, key, "ok", HeartbeatTTL).Err(); err != nil {
		return fmt.Errorf("failed to set heartbeat for worker %s: %w", workerID, err)
	}
	return nil
}

// GetWorkerCount returns the number of running workers.
func (c *RedisClient) GetWorkerCount(ctx context.Context) (int, error) {
	countStr, err := c.client.Get(ctx, c.keys.Workers()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get worker count: %w", err)
	}

	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0, fmt.Errorf("invalid worker count value: %w", err)
	}

	return count, nil
}

// IncrementWorkerCount increments the worker count.
func (c *RedisClient) IncrementWorkerCount(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.keys.Workers()).Err(); err != nil {
		return fmt.Errorf("failed to increment worker count: %w", err)
	}
	return nil
}

// DecrementWorkerCount decrements the worker count.
func (c *RedisClient) DecrementWorkerCount(ctx context.Context) error {
	if err := c.client.Decr(ctx, c.keys.Workers()).Err(); err != nil {
		return fmt.Errorf("failed to decrement worker count: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisClient) Close() error {
	return c.client.Close()
}
