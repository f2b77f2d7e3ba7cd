package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"helios-hq/atlas/pkg/acme"
	"helios-hq/atlas/pkg/certstore"
	"helios-hq/atlas/pkg/journal"
	"helios-hq/atlas/pkg/telemetry/metrics"
)

// TickResult describes the outcome of one lifecycle tick.
type TickResult string

const (
	// TickIssued means the first certificate for the domain was obtained.
	TickIssued TickResult = "issued"
	// TickRenewed means an expiring certificate was replaced.
	TickRenewed TickResult = "renewed"
	// TickNoop means the stored certificate still has enough validity.
	TickNoop TickResult = "noop"
	// TickFailed means the order failed; the next tick retries.
	TickFailed TickResult = "failed"
)

// Config contains configuration for the lifecycle manager.
type Config struct {
	// Domain is the primary certificate subject.
	Domain string

	// AltNames are additional subject alternative names.
	AltNames []string

	// Email is the ACME account contact.
	Email string

	// StartupDelay is how long Run waits before the first tick,
	// giving the proxy time to serve the challenge path.
	// Default: 10s
	StartupDelay time.Duration

	// RenewInterval is the period between ticks. Default: 12h
	RenewInterval time.Duration

	// MinValidity is the remaining-validity threshold below which the
	// certificate is renewed. Default: 720h
	MinValidity time.Duration
}

// Manager owns the acquisition and renewal loop for one domain.
type Manager struct {
	config  Config
	store   certstore.Store
	client  acme.Client
	journal journal.Journal
	metrics *metrics.Collector
	logger  *slog.Logger

	// now is swappable so tests can control the renewal decision.
	now func() time.Time

	mu    sync.RWMutex
	state State
}

// NewManager creates a lifecycle manager. journal and metrics may be nil.
func NewManager(cfg Config, store certstore.Store, client acme.Client, jnl journal.Journal, collector *metrics.Collector) *Manager {
	if cfg.StartupDelay <= 0 {
		cfg.StartupDelay = 10 * time.Second
	}
	if cfg.RenewInterval <= 0 {
		cfg.RenewInterval = 12 * time.Hour
	}
	if cfg.MinValidity <= 0 {
		cfg.MinValidity = 720 * time.Hour
	}

	return &Manager{
		config:  cfg,
		store:   store,
		client:  client,
		journal: jnl,
		metrics: collector,
		logger:  slog.Default().With("component", "lifecycle.manager", "domain", cfg.Domain),
		now:     time.Now,
	}
}

// SetClock replaces the manager's clock. Test hook.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Run executes the lifecycle loop until ctx is cancelled. The first
// tick happens after the startup delay; subsequent ticks run on the
// renewal interval, with overlapping ticks skipped. Run returns early
// only for fatal errors (filesystem permissions) that a retry cannot
// fix.
func (m *Manager) Run(ctx context.Context) error {
	m.logger.Info("lifecycle manager starting",
		"startup_delay", m.config.StartupDelay,
		"renew_interval", m.config.RenewInterval,
		"min_validity", m.config.MinValidity,
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(m.config.StartupDelay):
	}

	fatal := make(chan error, 1)
	m.runTick(ctx, fatal)

	scheduler := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	_, err := scheduler.AddFunc(fmt.Sprintf("@every %s", m.config.RenewInterval), func() {
		m.runTick(ctx, fatal)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule renewal ticks: %w", err)
	}
	scheduler.Start()

	defer func() {
		stopped := scheduler.Stop()
		<-stopped.Done()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-fatal:
		return err
	}
}

// runTick executes one tick, routing fatal errors to the channel and
// everything else to logs.
func (m *Manager) runTick(ctx context.Context, fatal chan<- error) {
	result, err := m.Tick(ctx)
	if err != nil {
		select {
		case fatal <- err:
		default:
		}
		return
	}
	m.logger.Debug("lifecycle tick finished", "result", string(result))
}

// Tick runs one acquisition or renewal check. The returned error is
// non-nil only for fatal conditions; ordinary order failures are
// reported as TickFailed and retried on the next tick.
func (m *Manager) Tick(ctx context.Context) (TickResult, error) {
	if !m.store.Exists(m.config.Domain) {
		return m.acquire(ctx)
	}

	bundle, err := m.store.Load(m.config.Domain)
	if err != nil {
		// The files exist but cannot be parsed. Replacing them is the
		// only way forward.
		m.logger.Warn("stored bundle is unreadable, reacquiring", "error", err)
		return m.acquire(ctx)
	}

	m.metrics.SetCertificateExpiry(m.config.Domain, bundle.NotAfter)

	now := m.now()
	if !bundle.ExpiresWithin(now, m.config.MinValidity) {
		m.setState(StateValid)
		m.logger.Debug("certificate still valid",
			"not_after", bundle.NotAfter,
			"time_to_expiry", bundle.TimeToExpiry(now),
		)
		m.metrics.RecordRenewalTick(string(TickNoop))
		m.record(ctx, journal.KindRenewNoop, "")
		return TickNoop, nil
	}

	m.setState(StateRenewalDue)
	m.logger.Info("certificate due for renewal",
		"not_after", bundle.NotAfter,
		"time_to_expiry", bundle.TimeToExpiry(now),
		"min_validity", m.config.MinValidity,
	)

	return m.renew(ctx, bundle)
}

// acquire obtains the first certificate for the domain.
func (m *Manager) acquire(ctx context.Context) (TickResult, error) {
	m.setState(StateNoCert)
	m.setState(StateAcquiring)
	m.logger.Info("no certificate found, ordering initial certificate",
		"alt_names", m.config.AltNames,
	)

	leafNotAfter, err := m.order(ctx)
	if err != nil {
		return m.orderFailed(ctx, err, StateNoCert)
	}

	m.setState(StateValid)
	m.logger.Info("initial certificate obtained", "not_after", leafNotAfter)
	m.metrics.RecordRenewalTick(string(TickIssued))
	m.record(ctx, journal.KindIssued, "")
	return TickIssued, nil
}

// renew replaces an expiring bundle.
func (m *Manager) renew(ctx context.Context, old *certstore.Bundle) (TickResult, error) {
	m.setState(StateRenewing)

	leafNotAfter, err := m.order(ctx)
	if err != nil {
		// The old bundle stays in place; the proxy keeps serving it
		// until it actually expires.
		return m.orderFailed(ctx, err, StateRenewalDue)
	}

	m.setState(StateValid)
	m.logger.Info("certificate renewed",
		"old_not_after", old.NotAfter,
		"new_not_after", leafNotAfter,
	)
	m.metrics.RecordRenewalTick(string(TickRenewed))
	m.record(ctx, journal.KindRenewed, "")
	return TickRenewed, nil
}

// order runs one ACME order and writes the validated material to the
// store. Returns the new leaf's NotAfter on success.
func (m *Manager) order(ctx context.Context) (time.Time, error) {
	issued, err := m.client.Obtain(ctx, acme.OrderRequest{
		Domains: append([]string{m.config.Domain}, m.config.AltNames...),
		Email:   m.config.Email,
	})
	if err != nil {
		return time.Time{}, err
	}

	// Never replace a working bundle with material that does not load.
	leaf, err := certstore.ValidateKeyPair(issued.ChainPEM, issued.KeyPEM)
	if err != nil {
		return time.Time{}, fmt.Errorf("obtained certificate failed validation: %w", err)
	}

	if err := m.store.Write(m.config.Domain, issued.ChainPEM, issued.KeyPEM); err != nil {
		return time.Time{}, fmt.Errorf("failed to store certificate bundle: %w", err)
	}

	m.metrics.SetCertificateExpiry(m.config.Domain, leaf.NotAfter)
	return leaf.NotAfter, nil
}

// orderFailed logs a classified order failure and decides whether it
// is fatal. Permission failures stop the process because no amount of
// retrying fixes filesystem ownership.
func (m *Manager) orderFailed(ctx context.Context, err error, fallback State) (TickResult, error) {
	class := acme.Classify(err)

	var oerr *acme.OrderError
	if errors.As(err, &oerr) {
		class = oerr.Class
	}

	attrs := []any{"error", err, "class", string(class)}
	if hint := acme.Diagnostic(class); hint != "" {
		attrs = append(attrs, "hint", hint)
	}
	m.logger.Error("certificate order failed", attrs...)

	m.metrics.RecordRenewalTick(string(TickFailed))
	m.record(ctx, journal.KindRenewFailed, string(class)+": "+err.Error())

	if class == acme.ClassPermission {
		return TickFailed, fmt.Errorf("fatal certificate order failure: %w", err)
	}

	m.setState(fallback)
	return TickFailed, nil
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()

	m.metrics.SetLifecycleState(int(state))
	m.logger.Debug("lifecycle state changed", "state", state.String())
}

func (m *Manager) record(ctx context.Context, kind, detail string) {
	if m.journal == nil {
		return
	}
	err := m.journal.Record(ctx, &journal.Event{
		Process: "certd",
		Kind:    kind,
		Domain:  m.config.Domain,
		Detail:  detail,
	})
	if err != nil {
		m.logger.Warn("failed to record journal event", "kind", kind, "error", err)
	}
}
