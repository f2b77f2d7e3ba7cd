package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"helios-hq/atlas/pkg/certstore"
	"helios-hq/atlas/pkg/cli"
)

var infoFlags struct {
	format string
}

var certsInfoCmd = &cobra.Command{
	Use:   "info [domain]",
	Short: "Display details of the stored certificate",
	Long: `Display details of the certificate stored for a domain.

Without an argument the configured primary domain is used. The command
reads the chain from the shared certificate store and prints the
subject, issuer, validity window, covered names and remaining validity.

Output formats:
  - text (default): Human-readable formatted output
  - json: JSON-formatted output for scripting

Examples:
  # Display the configured domain's certificate
  atlas certs info

  # Display in JSON format
  atlas certs info --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: displayCertInfo,
}

func init() {
	certsCmd.AddCommand(certsInfoCmd)

	certsInfoCmd.Flags().StringVar(&infoFlags.format, "format", "text", "output format: text, json")
}

// certInfo is the serializable inspection result.
type certInfo struct {
	Domain          string    `json:"domain"`
	CertPath        string    `json:"cert_path"`
	SubjectCN       string    `json:"subject_cn"`
	IssuerCN        string    `json:"issuer_cn"`
	DNSNames        []string  `json:"dns_names"`
	NotBefore       time.Time `json:"not_before"`
	NotAfter        time.Time `json:"not_after"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	SerialNumber    string    `json:"serial_number"`
}

func displayCertInfo(cmd *cobra.Command, args []string) error {
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
		return cli.NewCommandError("certs info", err)
	}

	chainPEM, err := os.ReadFile(store.CertPath(domain))
	if err != nil {
		return cli.NewCommandError("certs info", fmt.Errorf("no stored certificate for %s: %w", domain, err))
	}

	leaf, err := certstore.ParseLeaf(chainPEM)
	if err != nil {
		return cli.NewCommandError("certs info", err)
	}

	days, warning := certstore.CheckExpiration(leaf, time.Now())
	info := certInfo{
		Domain:          domain,
		CertPath:        store.CertPath(domain),
		SubjectCN:       leaf.Subject.CommonName,
		IssuerCN:        leaf.Issuer.CommonName,
		DNSNames:        leaf.DNSNames,
		NotBefore:       leaf.NotBefore,
		NotAfter:        leaf.NotAfter,
		DaysUntilExpiry: days,
		SerialNumber:    leaf.SerialNumber.Text(16),
	}

	if infoFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, info)
	}

	fmt.Printf("Certificate: %s\n\n", info.CertPath)
	fmt.Printf("Subject CN:  %s\n", info.SubjectCN)
	fmt.Printf("Issuer CN:   %s\n", info.IssuerCN)
	fmt.Printf("DNS Names:   %s\n", strings.Join(info.DNSNames, ", "))
	fmt.Printf("Not Before:  %s\n", info.NotBefore.Format(time.RFC3339))
	fmt.Printf("Not After:   %s\n", info.NotAfter.Format(time.RFC3339))
	fmt.Printf("Expires In:  %d days\n", info.DaysUntilExpiry)
	fmt.Printf("Serial:      %s\n", info.SerialNumber)
	if warning != "" {
		fmt.Printf("\nWarning: %s\n", warning)
	}
	return nil
}
