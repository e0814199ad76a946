package main

import (
	"time"

	"github.com/spf13/cobra"

	"venuely/api/pkg/cli"
	"venuely/api/pkg/probe"
)

var healthcheckFlags struct {
	host    string
	port    int
	timeout time.Duration
}

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Probe a running server's /health endpoint",
	Long: `Issue one GET /health against a running server and exit 0 if it
answers 200, 1 otherwise.

The target defaults to HEALTHCHECK_HOST (127.0.0.1) and PORT (3001). The
request is aborted after the timeout.

Examples:
  # Probe the local server
  venuely healthcheck

  # Probe another port
  venuely healthcheck --port 8080`,
	Args: cobra.NoArgs,
	RunE: runHealthcheck,
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)

	healthcheckCmd.Flags().StringVar(&healthcheckFlags.host, "host", "", "host to probe (default $HEALTHCHECK_HOST or 127.0.0.1)")
	healthcheckCmd.Flags().IntVarP(&healthcheckFlags.port, "port", "p", 0, "port to probe (default $PORT or 3001)")
	healthcheckCmd.Flags().DurationVar(&healthcheckFlags.timeout, "timeout", probe.DefaultTimeout, "request timeout")
}

func runHealthcheck(cmd *cobra.Command, args []string) error {
	p := probe.FromEnv()
	if healthcheckFlags.host != "" {
		p.Host = healthcheckFlags.host
	}
	if healthcheckFlags.port > 0 {
		p.Port = healthcheckFlags.port
	}
	if healthcheckFlags.timeout > 0 {
		p.Timeout = healthcheckFlags.timeout
	}

	if code := p.Run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()); code != probe.ExitHealthy {
		return &cli.ExitError{Code: code}
	}
	return nil
}
