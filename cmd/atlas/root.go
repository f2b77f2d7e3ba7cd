package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"helios-hq/atlas/pkg/cli"
	"helios-hq/atlas/pkg/config"
	"helios-hq/atlas/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Atlas - TLS certificate lifecycle and proxy coordinator",
	Long: `Atlas coordinates TLS certificate acquisition, renewal and reverse
proxy reconfiguration for a single-domain deployment.

It runs as two cooperating processes that communicate only through a
shared filesystem volume:
  - certd orders certificates over ACME and renews them before expiry
  - edge selects the proxy configuration variant and reloads the proxy
    when the certificate bundle changes

Certificates land at {base}/{domain}/fullchain.pem and privkey.pem,
the layout the proxy configuration references directly.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfigAndLogging loads the shared configuration and installs the
// process logger. Every long-running subcommand starts here.
func loadConfigAndLogging() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}

	if _, err := logging.Setup(logging.Config{
		Level:  level,
		Format: cfg.Telemetry.Logging.Format,
	}); err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	return cfg, nil
}
