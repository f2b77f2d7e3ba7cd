package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"helios-hq/atlas/pkg/cli"
	"helios-hq/atlas/pkg/journal"
)

var journalFlags struct {
	limit  int
	format string
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent lifecycle and reload events",
	Long: `Show recent events from the shared journal, newest first.

Both processes append to the journal when it is enabled: certificate
issuance and renewal outcomes from certd, mode selection and reload
outcomes from edge. The journal is observational; this command only
reads it.

Examples:
  # Show the last 20 events
  atlas journal

  # Show more, as JSON
  atlas journal --limit 100 --format json`,
	RunE: showJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().IntVar(&journalFlags.limit, "limit", 20, "maximum number of events")
	journalCmd.Flags().StringVar(&journalFlags.format, "format", "text", "output format: text, json")
}

func showJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigAndLogging()
	if err != nil {
		return err
	}

	if !cfg.Journal.Enabled {
		return cli.NewConfigError("journal.enabled", "journal is not enabled")
	}

	jnl, err := journal.NewSQLiteJournal(journal.SQLiteConfig{Path: cfg.Journal.Path})
	if err != nil {
		return cli.NewCommandError("journal", err)
	}
	defer jnl.Close()

	events, err := jnl.Recent(cmd.Context(), journalFlags.limit)
	if err != nil {
		return cli.NewCommandError("journal", err)
	}

	if journalFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, events)
	}

	if len(events) == 0 {
		fmt.Println("No events recorded.")
		return nil
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  %-5s  %-18s  %s", ev.Time.Format(time.RFC3339), ev.Process, ev.Kind, ev.Domain)
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		fmt.Println(line)
	}
	return nil
}
