package reload

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"helios-hq/atlas/pkg/certstore"
	"helios-hq/atlas/pkg/journal"
	"helios-hq/atlas/pkg/telemetry/metrics"
)

// State is the watcher's position in its two-state machine.
type State int

const (
	// StateAwaitingFirstCert polls for the bundle's first appearance.
	StateAwaitingFirstCert State = iota

	// StateWatching subscribes to change notifications for renewals.
	StateWatching
)

func (s State) String() string {
	switch s {
	case StateAwaitingFirstCert:
		return "awaiting_first_cert"
	case StateWatching:
		return "watching"
	default:
		return "unknown"
	}
}

// Config contains configuration for the Watcher.
type Config struct {
	// Domain is the primary domain whose bundle is watched.
	Domain string

	// PollInterval is the existence-poll period while awaiting the
	// first certificate. Default: 60 seconds.
	PollInterval time.Duration
}

// Watcher detects new or renewed bundles in the store and drives the
// serving process through validate-then-reload. The only state carried
// across events is the last observed modification time; it resets on
// process restart, which is safe because mode selection re-runs then.
type Watcher struct {
	config     Config
	store      certstore.Store
	controller Controller
	journal    journal.Journal
	metrics    *metrics.Collector
	logger     *slog.Logger

	mu      sync.RWMutex
	state   State
	lastMod time.Time
	reloads int
}

// NewWatcher creates a watcher. journal and metrics may be nil.
func NewWatcher(cfg Config, store certstore.Store, controller Controller, jnl journal.Journal, collector *metrics.Collector) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 60 * time.Second
	}

	return &Watcher{
		config:     cfg,
		store:      store,
		controller: controller,
		journal:    jnl,
		metrics:    collector,
		logger:     slog.Default().With("component", "reload.watcher", "domain", cfg.Domain),
	}
}

// State returns the current watcher state.
func (w *Watcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// ReloadCount returns the number of successful reloads so far.
func (w *Watcher) ReloadCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.reloads
}

// Run executes the watch loop until ctx is cancelled. It never returns
// an error for validation or reload failures; those leave the active
// configuration untouched and are retried on the next change.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		if err := w.awaitFirstCert(ctx); err != nil {
			return err
		}

		// The bundle exists. Apply it if it is newer than what the
		// serving process currently runs with, then watch for changes.
		w.applyIfChanged(ctx)

		if err := w.watch(ctx); err != nil {
			return err
		}

		// The change subscription ended without cancellation (fsnotify
		// error, directory removed). Fall back to polling; a renewal
		// that landed during the gap is caught by applyIfChanged on
		// re-entry.
		w.logger.Warn("change subscription lost, falling back to polling",
			"poll_interval", w.config.PollInterval,
		)
	}
}

// awaitFirstCert polls until the bundle exists. Returns ctx.Err() on
// cancellation, nil once the bundle is present.
func (w *Watcher) awaitFirstCert(ctx context.Context) error {
	w.setState(StateAwaitingFirstCert)

	if w.store.Exists(w.config.Domain) {
		return nil
	}

	w.logger.Info("no certificate yet, polling for first appearance",
		"poll_interval", w.config.PollInterval,
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if w.store.Exists(w.config.Domain) {
				w.logger.Info("certificate appeared")
				return nil
			}
		}
	}
}

// watch consumes change notifications until ctx is cancelled (returns
// ctx.Err()) or the subscription fails (returns nil so Run falls back
// to polling).
func (w *Watcher) watch(ctx context.Context) error {
	events, err := w.store.Watch(ctx, w.config.Domain)
	if err != nil {
		w.logger.Error("failed to subscribe to bundle changes", "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.config.PollInterval):
			return nil
		}
	}

	w.setState(StateWatching)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
			w.applyIfChanged(ctx)
		}
	}
}

// applyIfChanged runs validate-then-reload when the stored bundle is
// newer than the last one the serving process picked up.
func (w *Watcher) applyIfChanged(ctx context.Context) {
	mt, err := w.store.ModTime(w.config.Domain)
	if err != nil {
		w.logger.Error("failed to read bundle modification time", "error", err)
		return
	}

	w.mu.RLock()
	seen := w.lastMod
	w.mu.RUnlock()

	if !mt.After(seen) {
		return
	}

	if err := w.controller.Validate(ctx); err != nil {
		// The previous working configuration stays active; surface the
		// failure through logs and metrics only.
		w.logger.Error("configuration validation failed, keeping active configuration",
			"error", err,
		)
		w.metrics.RecordValidationFailure()
		w.metrics.RecordReload("validation_failed")
		w.record(ctx, journal.KindValidationFailed, err.Error())
		return
	}

	if err := w.controller.Reload(ctx); err != nil {
		w.logger.Error("graceful reload failed", "error", err)
		w.metrics.RecordReload("reload_failed")
		w.record(ctx, journal.KindReloaded, "failed: "+err.Error())
		return
	}

	w.mu.Lock()
	w.lastMod = mt
	w.reloads++
	count := w.reloads
	w.mu.Unlock()

	w.logger.Info("serving process reloaded with new certificate",
		"bundle_mod_time", mt,
		"reload_count", count,
	)
	w.metrics.RecordReload("reloaded")
	w.record(ctx, journal.KindReloaded, "")
}

func (w *Watcher) setState(state State) {
	w.mu.Lock()
	w.state = state
	w.mu.Unlock()

	w.metrics.SetWatcherState(int(state))
	w.logger.Debug("watcher state changed", "state", state.String())
}

func (w *Watcher) record(ctx context.Context, kind, detail string) {
	if w.journal == nil {
		return
	}
	err := w.journal.Record(ctx, &journal.Event{
		Process: "edge",
		Kind:    kind,
		Domain:  w.config.Domain,
		Detail:  detail,
	})
	if err != nil {
		w.logger.Warn("failed to record journal event", "kind", kind, "error", err)
	}
}
