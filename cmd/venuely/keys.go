package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"venuely/api/pkg/cli"
	"venuely/api/pkg/config"
	"venuely/api/pkg/security/auth"
	"venuely/api/pkg/telemetry/logging"
)

// generatedKeyBytes is the entropy of a generated key (hex encoded to 64 characters).
const generatedKeyBytes = 32

var keysFlags struct {
	output string
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Inspect and generate API keys",
	Long: `Inspect the API keys accepted on privileged routes and generate new ones.

Keys are configured through ADMIN_API_KEY, MONITORING_API_KEY and the
auth.keys list of the config file. Unset built-in keys fall back to
insecure placeholders that must not be used in production.

Subcommands:
  list     - List accepted keys by name, masked
  generate - Print a new random key

Examples:
  # List keys resolved from the environment
  venuely keys list

  # List keys as JSON
  venuely keys list -o json

  # Generate a key for ADMIN_API_KEY
  venuely keys generate`,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accepted keys",
	Long:  `List the accepted API keys with their names. Key values are masked.`,
	Args:  cobra.NoArgs,
	RunE:  listKeys,
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new random key",
	Args:  cobra.NoArgs,
	RunE:  generateKey,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysListCmd, keysGenerateCmd)

	keysListCmd.Flags().StringVarP(&keysFlags.output, "output", "o", "text", "output format (text, json)")
}

func listKeys(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(keysFlags.output)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return cli.NewConfigError("config", err.Error())
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), keysTable(cfg))
}

// keysTable renders the accepted keys. Values never appear unmasked.
func keysTable(cfg *config.Config) cli.Table {
	table := cli.Table{Headers: []string{"name", "key", "placeholder"}}
	for _, k := range auth.NewKeySet(cfg.Auth.Keys).List() {
		table.Rows = append(table.Rows, []string{
			k.Name,
			logging.MaskKey(k.Key),
			strconv.FormatBool(config.IsPlaceholderKey(k.Key)),
		})
	}
	return table
}

func generateKey(cmd *cobra.Command, args []string) error {
	key, err := newAPIKey()
	if err != nil {
		return cli.NewCommandError("keys generate", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), key)
	return nil
}

func newAPIKey() (string, error) {
	b := make([]byte, generatedKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
