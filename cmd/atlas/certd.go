package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"helios-hq/atlas/pkg/acme"
	"helios-hq/atlas/pkg/cli"
	"helios-hq/atlas/pkg/config"
	"helios-hq/atlas/pkg/lifecycle"
)

var certdCmd = &cobra.Command{
	Use:   "certd",
	Short: "Run the certificate lifecycle manager",
	Long: `Run the certificate lifecycle manager.

certd owns the write side of the shared certificate store. It orders
the first certificate once the proxy is up to serve the ACME challenge
path, then checks on a fixed interval whether the stored certificate
has dropped below the minimum remaining validity and renews it when it
has. Most checks are no-ops that leave the store untouched.

In the dev stage no certificates are ordered and certd exits
immediately.

Examples:
  # Start with the shared deployment config
  atlas certd --config /etc/atlas/config.yaml`,
	RunE: runCertd,
}

func init() {
	rootCmd.AddCommand(certdCmd)
}

func runCertd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging()
	if err != nil {
		return err
	}

	if cfg.Stage != config.StageProduction {
		slog.Info("dev stage serves plain HTTP, no certificates to manage", "stage", cfg.Stage)
		return nil
	}

	store, err := buildStore(cfg)
	if err != nil {
		return cli.NewCommandError("certd", err)
	}

	jnl := buildJournal(cfg)
	if jnl != nil {
		defer jnl.Close()
	}

	collector, stopTelemetry := buildTelemetry(cfg, "certd")
	defer stopTelemetry()

	keyType, err := acme.ParseKeyType(cfg.ACME.KeyType)
	if err != nil {
		return cli.NewConfigError("acme.key_type", err.Error())
	}

	client, err := acme.NewLegoClient(acme.LegoConfig{
		WebrootDir:   cfg.ACME.WebrootDir,
		Staging:      cfg.ACME.Staging,
		DirectoryURL: cfg.ACME.DirectoryURL,
		KeyType:      keyType,
	})
	if err != nil {
		return cli.NewCommandError("certd", err)
	}

	slog.Info("certificate lifecycle manager starting",
		"domain", cfg.Domain,
		"alt_names", cfg.AltNames,
		"directory", client.DirectoryURL(),
		"certs_dir", cfg.Certs.BaseDir,
	)

	manager := lifecycle.NewManager(lifecycle.Config{
		Domain:        cfg.Domain,
		AltNames:      cfg.AltNames,
		Email:         cfg.ACME.Email,
		StartupDelay:  cfg.Lifecycle.StartupDelay,
		RenewInterval: cfg.Lifecycle.RenewInterval,
		MinValidity:   cfg.Lifecycle.MinValidity,
	}, store, client, jnl, collector)

	ctx := cli.SetupSignalHandler()
	if err := manager.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("certd", err)
	}

	slog.Info("certificate lifecycle manager stopped")
	return nil
}
