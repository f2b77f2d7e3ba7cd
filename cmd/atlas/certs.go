package main

import (
	"github.com/spf13/cobra"
)

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Inspect stored certificates",
	Long: `Inspect certificates in the shared certificate store.

Subcommands:
  info     - Display details of the stored certificate
  validate - Check that the stored chain and key form a usable pair

Examples:
  # Display the stored certificate for the configured domain
  atlas certs info

  # Display another domain's certificate in JSON
  atlas certs info other.example.com --format json

  # Validate the stored bundle
  atlas certs validate`,
}

func init() {
	rootCmd.AddCommand(certsCmd)
}
