package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"helios-hq/atlas/pkg/cli"
	"helios-hq/atlas/pkg/journal"
	"helios-hq/atlas/pkg/proxyconf"
	"helios-hq/atlas/pkg/reload"
)

var edgeFlags struct {
	skipReload bool
}

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Run the edge coordinator",
	Long: `Run the edge coordinator.

edge decides which proxy configuration variant applies at startup:
plain HTTP for dev, TLS when a certificate bundle exists, or the ACME
bootstrap variant that serves the challenge path while the first
certificate is being obtained. It writes the rendered configuration to
the active path, then watches the certificate store and drives the
proxy through validate-then-reload whenever the bundle appears or is
renewed.

Examples:
  # Start with the shared deployment config
  atlas edge --config /etc/atlas/config.yaml

  # Render and watch without signalling the proxy (for inspection)
  atlas edge --skip-reload`,
	RunE: runEdge,
}

func init() {
	rootCmd.AddCommand(edgeCmd)

	edgeCmd.Flags().BoolVar(&edgeFlags.skipReload, "skip-reload", false, "log reload decisions without signalling the proxy")
}

// noopController satisfies reload.Controller for --skip-reload runs.
type noopController struct{}

func (noopController) Validate(ctx context.Context) error { return nil }
func (noopController) Reload(ctx context.Context) error   { return nil }

func runEdge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging()
	if err != nil {
		return err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return cli.NewCommandError("edge", err)
	}

	jnl := buildJournal(cfg)
	if jnl != nil {
		defer jnl.Close()
	}

	collector, stopTelemetry := buildTelemetry(cfg, "edge")
	defer stopTelemetry()

	ctx := cli.SetupSignalHandler()

	// Startup duty: pick the variant for the current stage and bundle
	// state and write it to the active configuration path.
	mode, err := proxyconf.Materialize(cfg.Stage, store.Exists(cfg.Domain), cfg.Nginx.ConfPath, proxyconf.TemplateData{
		ServerName:    cfg.Domain,
		AltNames:      cfg.AltNames,
		CertPath:      store.CertPath(cfg.Domain),
		KeyPath:       store.KeyPath(cfg.Domain),
		ChallengeRoot: cfg.ACME.WebrootDir,
		UpstreamAddr:  cfg.Nginx.Upstream,
		MaxBodySize:   cfg.Nginx.MaxBodySize,
	})
	if err != nil {
		return cli.NewCommandError("edge", err)
	}

	slog.Info("proxy configuration materialized",
		"mode", mode.String(),
		"conf_path", cfg.Nginx.ConfPath,
	)
	if jnl != nil {
		if err := jnl.Record(ctx, &journal.Event{
			Process: "edge",
			Kind:    journal.KindModeSelected,
			Domain:  cfg.Domain,
			Detail:  mode.String(),
		}); err != nil {
			slog.Warn("failed to record journal event", "error", err)
		}
	}

	// Dev serves plain HTTP forever; there is no certificate to watch.
	if mode == proxyconf.ModeHTTPOnly {
		slog.Info("http-only mode, nothing to watch")
		<-ctx.Done()
		return nil
	}

	var controller reload.Controller
	if edgeFlags.skipReload {
		controller = noopController{}
	} else {
		controller = reload.NewNginxController(cfg.Nginx.Binary, "")
	}

	watcher := reload.NewWatcher(reload.Config{
		Domain:       cfg.Domain,
		PollInterval: cfg.Watcher.PollInterval,
	}, store, controller, jnl, collector)

	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("edge", err)
	}

	slog.Info("edge coordinator stopped")
	return nil
}
