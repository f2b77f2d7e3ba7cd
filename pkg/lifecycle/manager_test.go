package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"helios-hq/atlas/internal/testcert"
	"helios-hq/atlas/pkg/acme"
	"helios-hq/atlas/pkg/certstore"
	"helios-hq/atlas/pkg/journal"
)

type fakeClient struct {
	mu      sync.Mutex
	calls   int
	lastReq acme.OrderRequest
	issue   func() (*acme.IssuedCertificate, error)
}

func (c *fakeClient) Obtain(ctx context.Context, req acme.OrderRequest) (*acme.IssuedCertificate, error) {
	c.mu.Lock()
	c.calls++
	c.lastReq = req
	issue := c.issue
	c.mu.Unlock()
	return issue()
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// issuing returns a fake client whose orders succeed with a
// certificate valid for the given duration from now.
func issuing(t *testing.T, domain string, validity time.Duration) *fakeClient {
	t.Helper()
	return &fakeClient{issue: func() (*acme.IssuedCertificate, error) {
		now := time.Now()
		chain, key, err := testcert.Generate(domain, now.Add(-time.Hour), now.Add(validity))
		if err != nil {
			return nil, err
		}
		return &acme.IssuedCertificate{ChainPEM: chain, KeyPEM: key}, nil
	}}
}

func seedBundle(t *testing.T, store *certstore.MemoryStore, domain string, validity time.Duration) {
	t.Helper()
	now := time.Now()
	chain, key, err := testcert.Generate(domain, now.Add(-time.Hour), now.Add(validity))
	if err != nil {
		t.Fatalf("failed to generate test certificate: %v", err)
	}
	if err := store.Write(domain, chain, key); err != nil {
		t.Fatalf("failed to seed bundle: %v", err)
	}
}

func newManager(store *certstore.MemoryStore, client acme.Client, jnl journal.Journal) *Manager {
	return NewManager(Config{
		Domain:      "example.com",
		AltNames:    []string{"www.example.com"},
		Email:       "ops@example.com",
		MinValidity: 720 * time.Hour,
	}, store, client, jnl, nil)
}

func TestTickAcquiresFirstCertificate(t *testing.T) {
	store := certstore.NewMemoryStore()
	client := issuing(t, "example.com", 90*24*time.Hour)
	jnl := journal.NewMemoryJournal()
	m := newManager(store, client, jnl)

	result, err := m.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if result != TickIssued {
		t.Errorf("expected issued, got %s", result)
	}
	if !store.Exists("example.com") {
		t.Error("expected bundle in store after acquisition")
	}
	if m.State() != StateValid {
		t.Errorf("expected valid state, got %s", m.State())
	}
	if client.lastReq.Domains[0] != "example.com" || client.lastReq.Domains[1] != "www.example.com" {
		t.Errorf("unexpected order domains: %v", client.lastReq.Domains)
	}
	if kinds := jnl.Kinds(); len(kinds) != 1 || kinds[0] != journal.KindIssued {
		t.Errorf("expected issued journal event, got %v", kinds)
	}
}

func TestTickNoopWhenValid(t *testing.T) {
	store := certstore.NewMemoryStore()
	client := issuing(t, "example.com", 90*24*time.Hour)
	jnl := journal.NewMemoryJournal()
	m := newManager(store, client, jnl)

	// 31 days of validity left: above the 30 day threshold.
	seedBundle(t, store, "example.com", 31*24*time.Hour)
	before, _ := store.ModTime("example.com")

	result, err := m.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if result != TickNoop {
		t.Errorf("expected noop, got %s", result)
	}
	if client.callCount() != 0 {
		t.Errorf("expected no order for a valid certificate, got %d calls", client.callCount())
	}
	after, _ := store.ModTime("example.com")
	if !after.Equal(before) {
		t.Error("noop tick must not touch the stored bundle")
	}
	if m.State() != StateValid {
		t.Errorf("expected valid state, got %s", m.State())
	}
	if kinds := jnl.Kinds(); len(kinds) != 1 || kinds[0] != journal.KindRenewNoop {
		t.Errorf("expected renew_noop journal event, got %v", kinds)
	}
}

func TestTickRenewsInsideThreshold(t *testing.T) {
	store := certstore.NewMemoryStore()
	client := issuing(t, "example.com", 90*24*time.Hour)
	jnl := journal.NewMemoryJournal()
	m := newManager(store, client, jnl)

	// 29 days left: inside the 30 day threshold.
	seedBundle(t, store, "example.com", 29*24*time.Hour)
	oldBundle, _ := store.Load("example.com")

	result, err := m.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	if result != TickRenewed {
		t.Errorf("expected renewed, got %s", result)
	}
	if client.callCount() != 1 {
		t.Errorf("expected exactly one order, got %d", client.callCount())
	}

	newBundle, err := store.Load("example.com")
	if err != nil {
		t.Fatalf("failed to load renewed bundle: %v", err)
	}
	if !newBundle.NotAfter.After(oldBundle.NotAfter) {
		t.Errorf("renewal must extend validity: old %v, new %v", oldBundle.NotAfter, newBundle.NotAfter)
	}
	if kinds := jnl.Kinds(); len(kinds) != 1 || kinds[0] != journal.KindRenewed {
		t.Errorf("expected renewed journal event, got %v", kinds)
	}
}

func TestTickIdempotentAfterRenewal(t *testing.T) {
	store := certstore.NewMemoryStore()
	client := issuing(t, "example.com", 90*24*time.Hour)
	m := newManager(store, client, nil)

	seedBundle(t, store, "example.com", 29*24*time.Hour)

	if result, _ := m.Tick(context.Background()); result != TickRenewed {
		t.Fatalf("expected first tick to renew, got %s", result)
	}
	if result, _ := m.Tick(context.Background()); result != TickNoop {
		t.Errorf("expected second tick to be a noop, got %s", result)
	}
	if client.callCount() != 1 {
		t.Errorf("expected a single order across both ticks, got %d", client.callCount())
	}
}

func TestOrderFailureKeepsOldBundle(t *testing.T) {
	store := certstore.NewMemoryStore()
	client := &fakeClient{issue: func() (*acme.IssuedCertificate, error) {
		return nil, &acme.OrderError{Class: acme.ClassRateLimit, Err: errors.New("too many certificates already issued")}
	}}
	jnl := journal.NewMemoryJournal()
	m := newManager(store, client, jnl)

	seedBundle(t, store, "example.com", 29*24*time.Hour)
	before, _ := store.ModTime("example.com")

	result, err := m.Tick(context.Background())
	if err != nil {
		t.Fatalf("rate limit failures must not be fatal: %v", err)
	}
	if result != TickFailed {
		t.Errorf("expected failed, got %s", result)
	}

	after, _ := store.ModTime("example.com")
	if !after.Equal(before) {
		t.Error("failed renewal must not touch the stored bundle")
	}
	if m.State() != StateRenewalDue {
		t.Errorf("expected renewal_due after failure, got %s", m.State())
	}

	events, _ := jnl.Recent(context.Background(), 1)
	if len(events) != 1 || events[0].Kind != journal.KindRenewFailed {
		t.Fatalf("expected renew_failed journal event, got %v", events)
	}
	if !strings.Contains(events[0].Detail, "rate_limit") {
		t.Errorf("expected failure class in journal detail, got %q", events[0].Detail)
	}
}

func TestPermissionFailureIsFatal(t *testing.T) {
	store := certstore.NewMemoryStore()
	client := &fakeClient{issue: func() (*acme.IssuedCertificate, error) {
		return nil, errors.New("open /etc/letsencrypt/live: permission denied")
	}}
	m := newManager(store, client, nil)

	result, err := m.Tick(context.Background())
	if result != TickFailed {
		t.Errorf("expected failed result, got %s", result)
	}
	if err == nil {
		t.Fatal("expected fatal error for permission failure")
	}
}

func TestInvalidMaterialRejected(t *testing.T) {
	store := certstore.NewMemoryStore()

	// Chain and key from different key pairs never load as a pair.
	chain, _, err := testcert.Generate("example.com", time.Now().Add(-time.Hour), time.Now().Add(90*24*time.Hour))
	if err != nil {
		t.Fatalf("failed to generate test certificate: %v", err)
	}
	_, otherKey, err := testcert.Generate("example.com", time.Now().Add(-time.Hour), time.Now().Add(90*24*time.Hour))
	if err != nil {
		t.Fatalf("failed to generate test certificate: %v", err)
	}
	client := &fakeClient{issue: func() (*acme.IssuedCertificate, error) {
		return &acme.IssuedCertificate{ChainPEM: chain, KeyPEM: otherKey}, nil
	}}
	m := newManager(store, client, nil)

	result, err := m.Tick(context.Background())
	if err != nil {
		t.Fatalf("validation failures must be retried, not fatal: %v", err)
	}
	if result != TickFailed {
		t.Errorf("expected failed, got %s", result)
	}
	if store.Exists("example.com") {
		t.Error("invalid material must never reach the store")
	}
}

func TestRenewalBoundary(t *testing.T) {
	cases := []struct {
		name     string
		validity time.Duration
		want     TickResult
	}{
		{"well above threshold", 60 * 24 * time.Hour, TickNoop},
		{"just above threshold", 30*24*time.Hour + time.Hour, TickNoop},
		{"just below threshold", 30*24*time.Hour - time.Hour, TickRenewed},
		{"expired", -time.Hour, TickRenewed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := certstore.NewMemoryStore()
			client := issuing(t, "example.com", 90*24*time.Hour)
			m := newManager(store, client, nil)

			now := time.Now()
			chain, key, err := testcert.Generate("example.com", now.Add(-time.Hour), now.Add(tc.validity))
			if err != nil {
				t.Fatalf("failed to generate test certificate: %v", err)
			}
			if err := store.Write("example.com", chain, key); err != nil {
				t.Fatalf("failed to seed bundle: %v", err)
			}

			result, err := m.Tick(context.Background())
			if err != nil {
				t.Fatalf("tick failed: %v", err)
			}
			if result != tc.want {
				t.Errorf("validity %v: expected %s, got %s", tc.validity, tc.want, result)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	states := map[State]string{
		StateNoCert:     "no_cert",
		StateAcquiring:  "acquiring",
		StateValid:      "valid",
		StateRenewalDue: "renewal_due",
		StateRenewing:   "renewing",
		State(99):       "unknown",
	}
	for state, want := range states {
		if state.String() != want {
			t.Errorf("expected %q, got %q", want, state.String())
		}
	}
}
