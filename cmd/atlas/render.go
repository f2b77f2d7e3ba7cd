package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"helios-hq/atlas/pkg/cli"
	"helios-hq/atlas/pkg/proxyconf"
)

var renderFlags struct {
	mode   string
	output string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a proxy configuration variant",
	Long: `Render a proxy configuration variant without starting the
coordinator.

By default the variant is selected the same way edge selects it at
startup: from the deployment stage and whether a certificate bundle
exists. A specific variant can be forced with --mode.

Examples:
  # Render the variant edge would select, to stdout
  atlas render

  # Force the TLS variant
  atlas render --mode tls_active

  # Write to the active configuration path
  atlas render --output /etc/nginx/conf.d/atlas.conf`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderFlags.mode, "mode", "auto", "variant to render: auto, http_only, acme_bootstrap, tls_active")
	renderCmd.Flags().StringVarP(&renderFlags.output, "output", "o", "-", "output path, - for stdout")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging()
	if err != nil {
		return err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return cli.NewCommandError("render", err)
	}

	var mode proxyconf.Mode
	switch renderFlags.mode {
	case "auto":
		mode = proxyconf.Select(cfg.Stage, store.Exists(cfg.Domain))
	case "http_only":
		mode = proxyconf.ModeHTTPOnly
	case "acme_bootstrap":
		mode = proxyconf.ModeACMEBootstrap
	case "tls_active":
		mode = proxyconf.ModeTLSActive
	default:
		return cli.NewConfigError("mode", fmt.Sprintf("unknown variant %q", renderFlags.mode))
	}

	rendered, err := proxyconf.Render(mode, proxyconf.TemplateData{
		ServerName:    cfg.Domain,
		AltNames:      cfg.AltNames,
		CertPath:      store.CertPath(cfg.Domain),
		KeyPath:       store.KeyPath(cfg.Domain),
		ChallengeRoot: cfg.ACME.WebrootDir,
		UpstreamAddr:  cfg.Nginx.Upstream,
		MaxBodySize:   cfg.Nginx.MaxBodySize,
	})
	if err != nil {
		return cli.NewCommandError("render", err)
	}

	if renderFlags.output == "-" {
		_, err = os.Stdout.Write(rendered)
		return err
	}

	if err := proxyconf.WriteConfig(renderFlags.output, rendered); err != nil {
		return cli.NewCommandError("render", err)
	}
	fmt.Printf("✓ Rendered %s variant to %s\n", mode, renderFlags.output)
	return nil
}
