package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
model: gemini-2.5-pro
variant: standard
base_url: https://proxy.internal/gemini
temperature: 0.3
max_tokens: 8192
log:
  level: debug
  format: json
worker:
  redis_url: redis://cache:6379/2
  concurrency: 8
  shutdown_timeout: 1m
  heartbeat_interval: 5s
  queue_prefix: acme
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.yaml", sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel())
	assert.Equal(t, "standard", cfg.Variant)
	assert.Equal(t, "https://proxy.internal/gemini", cfg.BaseURL)
	require.NotNil(t, cfg.Temperature)
	assert.Equal(t, 0.3, *cfg.Temperature)
	assert.Equal(t, 8192, cfg.MaxTokens)

	assert.Equal(t, slog.LevelDebug, cfg.Log.GetLevel())
	assert.Equal(t, "json", cfg.Log.GetFormat())

	assert.Equal(t, "redis://cache:6379/2", cfg.Worker.GetRedisURL())
	assert.Equal(t, 8, cfg.Worker.GetConcurrency())
	assert.Equal(t, time.Minute, cfg.Worker.GetShutdownTimeout())
	assert.Equal(t, 5*time.Second, cfg.Worker.GetHeartbeatInterval())
	assert.Equal(t, "acme", cfg.Worker.GetQueuePrefix())
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_Directory(t *testing.T) {
	t.Run("vanguard.yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "vanguard.yaml", "model: a\n")
		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "a", cfg.Model)
	})

	t.Run("vanguard.yml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "vanguard.yml", "model: b\n")
		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "b", cfg.Model)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no vanguard.yaml")
	})
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to stat path")

	path := writeFile(t, t.TempDir(), "bad.yaml", "model: [unterminated\n")
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestDefaults(t *testing.T) {
	var cfg *Config
	assert.Equal(t, DefaultModel, cfg.GetModel())

	var log *LogConfig
	assert.Equal(t, slog.LevelInfo, log.GetLevel())
	assert.Equal(t, "text", log.GetFormat())
	assert.Equal(t, slog.LevelInfo, (&LogConfig{Level: "loud"}).GetLevel())
	assert.Equal(t, slog.LevelWarn, (&LogConfig{Level: "WARN"}).GetLevel())

	var w *WorkerConfig
	assert.Equal(t, "redis://localhost:6379", w.GetRedisURL())
	assert.Equal(t, 4, w.GetConcurrency())
	assert.Equal(t, 30*time.Second, w.GetShutdownTimeout())
	assert.Equal(t, 10*time.Second, w.GetHeartbeatInterval())
	assert.Equal(t, "vanguard", w.GetQueuePrefix())

	bad := &WorkerConfig{ShutdownTimeout: "soon", HeartbeatInterval: "-1s", Concurrency: -2}
	assert.Equal(t, 30*time.Second, bad.GetShutdownTimeout())
	assert.Equal(t, 10*time.Second, bad.GetHeartbeatInterval())
	assert.Equal(t, 4, bad.GetConcurrency())
}

func TestLoadEnv(t *testing.T) {
	t.Run("API_KEY wins over GEMINI_API_KEY", func(t *testing.T) {
		t.Setenv("API_KEY", "primary")
		t.Setenv("GEMINI_API_KEY", "fallback")

		env, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "primary", env.APIKey)
	})

	t.Run("GEMINI_API_KEY fallback", func(t *testing.T) {
		t.Setenv("API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "fallback")

		env, err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, "fallback", env.APIKey)
	})

	t.Run("dotenv file", func(t *testing.T) {
		// Register cleanup for variables the file will set.
		t.Setenv("API_KEY", "")
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("LLM_MODEL", "")
		t.Setenv("REDIS_URL", "")
		os.Unsetenv("API_KEY")
		os.Unsetenv("LLM_MODEL")
		os.Unsetenv("REDIS_URL")

		path := writeFile(t, t.TempDir(), ".env", "API_KEY=from-file\nLLM_MODEL=gemini-2.5-flash\nREDIS_URL=redis://q:6379\n")

		env, err := LoadEnv(path)
		require.NoError(t, err)
		assert.Equal(t, "from-file", env.APIKey)
		assert.Equal(t, "gemini-2.5-flash", env.Model)
		assert.Equal(t, "redis://q:6379", env.RedisURL)
	})

	t.Run("malformed dotenv file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), ".env", "API_KEY='unterminated\n")
		_, err := LoadEnv(path)
		assert.Error(t, err)
	})
}

func TestApply(t *testing.T) {
	cfg := &Config{Model: "from-yaml"}
	cfg.Apply(&Env{APIKey: "k", RedisURL: "redis://r:6379"})

	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "from-yaml", cfg.Model)
	assert.Equal(t, "redis://r:6379", cfg.Worker.GetRedisURL())

	cfg.Apply(&Env{Model: "from-env"})
	assert.Equal(t, "from-env", cfg.Model)

	cfg.Apply(nil)
	assert.Equal(t, "from-env", cfg.Model)
}
