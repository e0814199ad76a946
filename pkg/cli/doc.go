/*
Package cli provides command-line helpers shared by the venuely commands.

Output Formatting:

Commands that print data support text and JSON output:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

A Table renders as aligned columns in text mode and as a list of objects
keyed by header in JSON mode.

Errors:

ConfigError and CommandError describe failures to the user. ExitError
carries a process exit code for failures that have already been reported,
such as a server that logged its own shutdown cause:

	if code := lc.Run(ctx); code != 0 {
		return &cli.ExitError{Code: code}
	}
*/
package cli
