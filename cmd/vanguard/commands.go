package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/vanguard/audit"
	"github.com/zero-day-ai/vanguard/queue"
	"github.com/zero-day-ai/vanguard/worker"
)

func newAuditCommand(a *app) *cobra.Command {
	var file, format, output string

	cmd := &cobra.Command{
		Use:   "audit [description...]",
		Short: "Run one audit and print the result",
		Long:  "audit sends the description to the configured model, validates the response, and prints it. The description is taken from the arguments, from --file, or from stdin.",
		Example: `  vanguard audit "E-commerce app with Node.js backend, MongoDB, S3 storage"
  vanguard audit --file target.txt --format markdown --output audit.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := audit.ParseExportFormat(format)
			if err != nil {
				return err
			}

			description, err := a.readDescription(args, file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(description) == "" {
				return userFacing(&audit.Error{Op: "audit", Kind: audit.KindValidation, Err: audit.ErrBlankDescription})
			}

			auditor, err := a.newAuditor(cmd.Context())
			if err != nil {
				return err
			}

			resp, err := auditor.Audit(cmd.Context(), description)
			if err != nil {
				return userFacing(err)
			}

			return a.writeAudit(resp, exportFormat, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the description from a file (\"-\" for stdin)")
	cmd.Flags().StringVar(&format, "format", audit.FormatText.String(), "Output format: text, markdown, or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout")

	return cmd
}

func newSchemaCommand(a *app) *cobra.Command {
	var variant string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the audit response schema as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.cfg.Variant
			if cmd.Flags().Changed("variant") {
				name = variant
			}
			v, err := audit.ParseVariant(name)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(audit.Schema(v))
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "Schema variant: poc or standard (default from config)")

	return cmd
}

func newWorkerCommand(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run audits from the Redis queue until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			auditor, err := a.newAuditor(ctx)
			if err != nil {
				return err
			}

			client, err := a.newQueueClient(a.cfg)
			if err != nil {
				return err
			}
			defer closeWithLog(client, a.logger, "redis client")

			return worker.Run(ctx, auditor, client, worker.Options{
				Concurrency: concurrency,
				Logger:      a.logger,
				Config:      a.cfg.Worker,
			})
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Concurrent audits (default from config, else 4)")

	return cmd
}

func newSubmitCommand(a *app) *cobra.Command {
	var file, format, output string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "submit [description...]",
		Short: "Queue an audit for a worker and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := audit.ParseExportFormat(format)
			if err != nil {
				return err
			}

			description, err := a.readDescription(args, file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(description) == "" {
				return userFacing(&audit.Error{Op: "submit", Kind: audit.KindValidation, Err: audit.ErrBlankDescription})
			}

			variant, err := a.variant()
			if err != nil {
				return err
			}

			client, err := a.newQueueClient(a.cfg)
			if err != nil {
				return err
			}
			defer closeWithLog(client, a.logger, "redis client")

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			job := queue.NewJob(description)
			job.Variant = variant
			a.logger.Info("submitting audit job", "job_id", job.ID)

			result, err := queue.Submit(ctx, client, job)
			if err != nil {
				return err
			}
			if result.HasError() {
				return fmt.Errorf("%s", result.Message)
			}

			a.logger.Info("audit job completed",
				"job_id", job.ID,
				"worker_id", result.WorkerID,
				"duration_ms", result.Duration().Milliseconds(),
			)
			return a.writeAudit(result.Response, exportFormat, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the description from a file (\"-\" for stdin)")
	cmd.Flags().StringVar(&format, "format", audit.FormatText.String(), "Output format: text, markdown, or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for a worker")

	return cmd
}
