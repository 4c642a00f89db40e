package main

import (
	"encoding/json"
	"errors"
	"net"
	"net/url"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/vanguard/health"
)

const defaultBackendAddr = "generativelanguage.googleapis.com:443"

// backendAddr derives the host:port the generator will dial.
func backendAddr(baseURL string) string {
	if baseURL == "" {
		return defaultBackendAddr
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	if u.Port() != "" {
		return u.Host
	}
	port := "443"
	if u.Scheme == "http" {
		port = "80"
	}
	return net.JoinHostPort(u.Hostname(), port)
}

func newHealthCommand(a *app) *cobra.Command {
	var withQueue bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the credential, backend, and queue are usable",
		Long:  "health runs preflight checks and prints them as JSON. It exits non-zero when any check is unhealthy; degraded checks are reported but do not fail.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			checks := []health.Status{
				health.CredentialCheck("API_KEY", a.cfg.APIKey),
				health.NetworkCheck(ctx, backendAddr(a.cfg.BaseURL)),
			}
			if a.configPath != "" {
				checks = append(checks, health.FileCheck(a.configPath, false))
			}
			if withQueue {
				client, err := a.newQueueClient(a.cfg)
				if err != nil {
					checks = append(checks, health.Status{Name: "queue", State: health.StateUnhealthy, Message: err.Error()})
				} else {
					checks = append(checks, health.QueueCheck(ctx, client))
					closeWithLog(client, a.logger, "redis client")
				}
			}

			overall := health.Combine(checks...)

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				Status health.Status   `json:"status"`
				Checks []health.Status `json:"checks"`
			}{overall, checks}); err != nil {
				return err
			}

			if overall.IsUnhealthy() {
				return errors.New(overall.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withQueue, "queue", false, "Also check the Redis queue and registered workers")

	return cmd
}
