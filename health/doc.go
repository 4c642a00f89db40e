// Package health provides preflight checks for running audits.
//
// Each check returns a Status; Combine folds several into one result whose
// state is the worst of its inputs:
//
//	status := health.Combine(
//	    health.CredentialCheck("API_KEY", cfg.APIKey),
//	    health.QueueCheck(ctx, client),
//	    health.FileCheck("vanguard.yaml"),
//	)
//	if status.IsUnhealthy() {
//	    log.Printf("preflight failed: %s %v", status.Message, status.Details)
//	}
//
// Priority when combining:
//
//   - Unhealthy: if any check is unhealthy
//   - Degraded: if any check is degraded and none is unhealthy
//   - Healthy: otherwise
package health
