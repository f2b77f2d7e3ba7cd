package main

import (
	"context"
	"log/slog"
	"time"

	"helios-hq/atlas/pkg/certstore"
	"helios-hq/atlas/pkg/config"
	"helios-hq/atlas/pkg/journal"
	"helios-hq/atlas/pkg/server"
	"helios-hq/atlas/pkg/telemetry/metrics"
)

// buildStore creates the shared filesystem certificate store.
func buildStore(cfg *config.Config) (*certstore.FileStore, error) {
	return certstore.NewFileStore(cfg.Certs.BaseDir,
		certstore.WithDebounce(cfg.Watcher.Debounce),
	)
}

// buildJournal opens the shared event journal, or returns nil when
// journaling is disabled. Journal failures are never fatal; the
// journal is observational.
func buildJournal(cfg *config.Config) journal.Journal {
	if !cfg.Journal.Enabled {
		return nil
	}

	jnl, err := journal.NewSQLiteJournal(journal.SQLiteConfig{Path: cfg.Journal.Path})
	if err != nil {
		slog.Warn("failed to open event journal, continuing without it",
			"path", cfg.Journal.Path,
			"error", err,
		)
		return nil
	}
	return jnl
}

// buildTelemetry creates the metrics collector and, when enabled,
// starts the telemetry HTTP server. The returned shutdown function is
// safe to call even when no server was started.
func buildTelemetry(cfg *config.Config, process string) (*metrics.Collector, func()) {
	collector := metrics.NewCollector(metrics.Config{
		Enabled:   cfg.Telemetry.Metrics.Enabled,
		Subsystem: process,
	}, nil)

	if !cfg.Telemetry.Metrics.Enabled {
		return collector, func() {}
	}

	srv := server.NewServer(cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path, process, collector)
	if err := srv.Start(); err != nil {
		slog.Warn("failed to start telemetry server, continuing without it", "error", err)
		return collector, func() {}
	}

	return collector, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
