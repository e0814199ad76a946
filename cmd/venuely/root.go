package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"venuely/api/pkg/cli"
	"venuely/api/pkg/config"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "venuely",
	Short: "Venuely - venue booking API server",
	Long: `Venuely is the HTTP API server of the venue booking backend.

Every request is tagged with a correlation id. Privileged routes require a
shared API key in the X-API-Key header. The server exits 0 on SIGINT or
SIGTERM and 1 on any startup or runtime fault.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the command's exit code.
func Execute() {
	err := rootCmd.Execute()
	code, report := cli.ExitCode(err)
	if report {
		fmt.Fprintln(os.Stderr, err)
	}
	if code != 0 {
		os.Exit(code)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default $VENUELY_CONFIG)")
}

// configPath returns the file named by --config, falling back to
// VENUELY_CONFIG.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return os.Getenv(config.EnvConfigFile)
}
