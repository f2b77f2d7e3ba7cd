package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"helios-hq/atlas/pkg/certstore"
	"helios-hq/atlas/pkg/cli"
)

var certsValidateCmd = &cobra.Command{
	Use:   "validate [domain]",
	Short: "Validate the stored certificate bundle",
	Long: `Check that the stored chain and private key form a usable TLS
pair and that the leaf certificate is inside its validity window.

Without an argument the configured primary domain is used. This is the
same check the lifecycle manager runs on freshly obtained material
before it replaces a working bundle.

Examples:
  # Validate the configured domain's bundle
  atlas certs validate

  # Validate another domain's bundle
  atlas certs validate other.example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: validateCert,
}

func init() {
	certsCmd.AddCommand(certsValidateCmd)
}

func validateCert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging()
	if err != nil {
		return err
	}

	domain := cfg.Domain
	if len(args) == 1 {
		domain = args[0]
	}

	store, err := buildStore(cfg)
	if err != nil {
		return cli.NewCommandError("certs validate", err)
	}

	chainPEM, err := os.ReadFile(store.CertPath(domain))
	if err != nil {
		return cli.NewCommandError("certs validate", fmt.Errorf("failed to read chain: %w", err))
	}
	keyPEM, err := os.ReadFile(store.KeyPath(domain))
	if err != nil {
		return cli.NewCommandError("certs validate", fmt.Errorf("failed to read key: %w", err))
	}

	leaf, err := certstore.ValidateKeyPair(chainPEM, keyPEM)
	if err != nil {
		return cli.NewCommandError("certs validate", err)
	}

	fmt.Printf("✓ Certificate and key are valid\n")
	fmt.Printf("  Subject CN: %s\n", leaf.Subject.CommonName)
	fmt.Printf("  Not After:  %s\n", leaf.NotAfter.Format(time.RFC3339))

	if _, warning := certstore.CheckExpiration(leaf, time.Now()); warning != "" {
		fmt.Printf("  Warning:    %s\n", warning)
	}
	return nil
}
