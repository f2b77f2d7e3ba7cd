/*
Package cli provides command-line interface utilities for Atlas.

The cli package includes output formatters, signal handling, and common
error types used by the atlas command.

Output Formatting:

The cli package supports text and JSON output for inspection commands:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
