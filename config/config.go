// Package config provides loading of vanguard.yaml configuration files and
// of the backend credential from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultModel is the backend model used when none is configured.
const DefaultModel = "gemini-3-pro-preview"

// Config represents a vanguard.yaml configuration file.
type Config struct {
	// Model is the backend model identifier.
	Model string `yaml:"model,omitempty"`

	// Variant is the schema variant: "poc" (default) or "standard".
	Variant string `yaml:"variant,omitempty"`

	// BaseURL overrides the backend endpoint.
	BaseURL string `yaml:"base_url,omitempty"`

	// Temperature is passed to the backend when set.
	Temperature *float64 `yaml:"temperature,omitempty"`

	// MaxTokens caps the response length when positive.
	MaxTokens int `yaml:"max_tokens,omitempty"`

	// APIKey is the opaque backend credential. It is never read from YAML;
	// see LoadEnv.
	APIKey string `yaml:"-"`

	// Log configures the structured logger.
	Log *LogConfig `yaml:"log,omitempty"`

	// Worker configures queue-based audit execution.
	Worker *WorkerConfig `yaml:"worker,omitempty"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `yaml:"level,omitempty"`

	// Format is "json" or "text". Default: text
	Format string `yaml:"format,omitempty"`
}

// WorkerConfig defines configuration for queue-based worker execution.
type WorkerConfig struct {
	// RedisURL is the Redis connection string.
	// Default: redis://localhost:6379
	RedisURL string `yaml:"redis_url,omitempty"`

	// Concurrency is the number of concurrent audits per worker process.
	// Audits are I/O-bound, so a few per process is reasonable.
	// Default: 4
	Concurrency int `yaml:"concurrency,omitempty"`

	// ShutdownTimeout is the time to wait for in-flight audits on shutdown.
	// Format: Go duration string (e.g., "30s", "1m")
	// Default: 30s
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`

	// HeartbeatInterval is the interval between health heartbeats.
	// Format: Go duration string (e.g., "10s")
	// Default: 10s
	HeartbeatInterval string `yaml:"heartbeat_interval,omitempty"`

	// QueuePrefix is the Redis key prefix.
	// Default: "vanguard" (resulting in "vanguard:audits:queue")
	QueuePrefix string `yaml:"queue_prefix,omitempty"`
}

// GetModel returns the configured model or DefaultModel.
func (c *Config) GetModel() string {
	if c == nil || c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// GetLevel parses the log level. Returns slog.LevelInfo if not set or invalid.
func (l *LogConfig) GetLevel() slog.Level {
	if l == nil || l.Level == "" {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// GetFormat returns "json" or "text".
func (l *LogConfig) GetFormat() string {
	if l != nil && strings.EqualFold(l.Format, "json") {
		return "json"
	}
	return "text"
}

// GetRedisURL returns the Redis URL or the default value.
func (w *WorkerConfig) GetRedisURL() string {
	if w == nil || w.RedisURL == "" {
		return "redis://localhost:6379"
	}
	return w.RedisURL
}

// GetShutdownTimeout parses the shutdown timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (w *WorkerConfig) GetShutdownTimeout() time.Duration {
	if w == nil || w.ShutdownTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(w.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetHeartbeatInterval parses the heartbeat interval string and returns a duration.
// Returns the default value if not set or invalid.
func (w *WorkerConfig) GetHeartbeatInterval() time.Duration {
	if w == nil || w.HeartbeatInterval == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(w.HeartbeatInterval)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// GetConcurrency returns the configured concurrency or the default value.
func (w *WorkerConfig) GetConcurrency() int {
	if w == nil || w.Concurrency <= 0 {
		return 4
	}
	return w.Concurrency
}

// GetQueuePrefix returns the queue prefix or the default value.
func (w *WorkerConfig) GetQueuePrefix() string {
	if w == nil || w.QueuePrefix == "" {
		return "vanguard"
	}
	return w.QueuePrefix
}

// Load reads and parses a vanguard.yaml file from the given path.
// If the path is a directory, it looks for vanguard.yaml or vanguard.yml in that directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range []string{"vanguard.yaml", "vanguard.yml"} {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no vanguard.yaml or vanguard.yml found in %s", path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Env holds settings resolved from the process environment.
type Env struct {
	// APIKey is read from API_KEY, falling back to GEMINI_API_KEY.
	APIKey string

	// Model is read from LLM_MODEL.
	Model string

	// RedisURL is read from REDIS_URL.
	RedisURL string
}

// LoadEnv loads the given .env files (".env" if none) into the process
// environment and resolves Env from it. Missing files are ignored; variables
// already set in the environment take precedence over file values.
func LoadEnv(filenames ...string) (*Env, error) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}

	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
	}

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	return &Env{
		APIKey:   apiKey,
		Model:    os.Getenv("LLM_MODEL"),
		RedisURL: os.Getenv("REDIS_URL"),
	}, nil
}

// Apply overlays non-empty environment values onto the configuration.
func (c *Config) Apply(env *Env) {
	if env == nil {
		return
	}
	c.APIKey = env.APIKey
	if env.Model != "" {
		c.Model = env.Model
	}
	if env.RedisURL != "" {
		if c.Worker == nil {
			c.Worker = &WorkerConfig{}
		}
		c.Worker.RedisURL = env.RedisURL
	}
}
