package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/vanguard"
	"github.com/zero-day-ai/vanguard/audit"
	"github.com/zero-day-ai/vanguard/config"
	"github.com/zero-day-ai/vanguard/llm"
	"github.com/zero-day-ai/vanguard/llm/gemini"
	"github.com/zero-day-ai/vanguard/queue"
)

// app carries state shared by all commands. Constructors are fields so tests
// can swap the backend and the queue.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	envFiles   []string

	cfg    *config.Config
	logger *slog.Logger

	newGenerator   func(ctx context.Context, cfg *config.Config) (llm.Generator, error)
	newQueueClient func(cfg *config.Config) (queue.Client, error)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:          stdin,
		stdout:         stdout,
		stderr:         stderr,
		newGenerator:   newGeminiGenerator,
		newQueueClient: newRedisQueueClient,
	}
}

// cliError carries the user-facing message of a failed command while keeping
// the underlying error for errors.Is.
type cliError struct {
	msg string
	err error
}

func (e *cliError) Error() string { return e.msg }
func (e *cliError) Unwrap() error { return e.err }

func userFacing(err error) error {
	return &cliError{msg: audit.UserMessage(err), err: err}
}

// init loads configuration and builds the logger. It runs before every command.
func (a *app) init() error {
	cfg := &config.Config{}
	switch {
	case a.configPath != "":
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	default:
		if loaded, err := config.Load("."); err == nil {
			cfg = loaded
		}
	}

	env, err := config.LoadEnv(a.envFiles...)
	if err != nil {
		return err
	}
	cfg.Apply(env)

	if a.logLevel != "" {
		if cfg.Log == nil {
			cfg.Log = &config.LogConfig{}
		}
		cfg.Log.Level = a.logLevel
	}

	a.cfg = cfg
	a.logger = newLogger(a.stderr, cfg.Log)
	return nil
}

func newLogger(w io.Writer, cfg *config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.GetLevel()}
	if cfg.GetFormat() == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (a *app) variant() (audit.Variant, error) {
	return audit.ParseVariant(a.cfg.Variant)
}

// newAuditor builds the configured Auditor.
func (a *app) newAuditor(ctx context.Context) (*vanguard.Auditor, error) {
	variant, err := a.variant()
	if err != nil {
		return nil, err
	}

	gen, err := a.newGenerator(ctx, a.cfg)
	if err != nil {
		return nil, err
	}

	var reqOpts []llm.CompletionOption
	if a.cfg.Temperature != nil {
		reqOpts = append(reqOpts, llm.WithTemperature(*a.cfg.Temperature))
	}
	if a.cfg.MaxTokens > 0 {
		reqOpts = append(reqOpts, llm.WithMaxTokens(a.cfg.MaxTokens))
	}

	return vanguard.New(gen,
		vanguard.WithModel(a.cfg.GetModel()),
		vanguard.WithVariant(variant),
		vanguard.WithLogger(a.logger),
		vanguard.WithRequestOptions(reqOpts...),
	)
}

func newGeminiGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("no API key configured: set API_KEY or GEMINI_API_KEY")
	}
	return gemini.New(ctx, gemini.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	})
}

func newRedisQueueClient(cfg *config.Config) (queue.Client, error) {
	return queue.NewRedisClient(queue.RedisOptions{
		URL:    cfg.Worker.GetRedisURL(),
		Prefix: cfg.Worker.GetQueuePrefix(),
	})
}

// readDescription resolves the target description from arguments, --file,
// or stdin, in that order. "-" as the file name means stdin.
func (a *app) readDescription(args []string, file string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	var r io.Reader = a.stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("failed to open description file: %w", err)
		}
		defer closeWithLog(f, a.logger, "description file")
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read description: %w", err)
	}
	return string(data), nil
}

// writeAudit exports resp to --output, or to stdout when output is empty.
func (a *app) writeAudit(resp *audit.Response, format audit.ExportFormat, output string) error {
	if output == "" {
		return audit.Export(a.stdout, resp, format)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer closeWithLog(f, a.logger, "output file")

	if err := audit.Export(f, resp, format); err != nil {
		return err
	}
	a.logger.Info("audit written", "path", output, "format", format.String())
	return nil
}

// closeWithLog closes the resource and logs any error at warning level.
func closeWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vanguard",
		Short:         "Generate AI-assisted security audits of a described system",
		Long:          "vanguard turns a free-text description of a target system into a validated security audit: inferred technology stack, threat model, reconnaissance plan, and submission-ready bug-bounty reports. Nothing is ever executed against the target.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to vanguard.yaml (default: ./vanguard.yaml if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newAuditCommand(a),
		newSchemaCommand(a),
		newWorkerCommand(a),
		newSubmitCommand(a),
		newHealthCommand(a),
	)

	return root
}
