package acme

import (
	"context"
	"errors"
	"testing"

	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"
)

type fakeOrderer struct {
	registered  bool
	providerSet bool
	obtained    []certificate.ObtainRequest
	obtainErr   error
}

func (f *fakeOrderer) Register(options registration.RegisterOptions) (*registration.Resource, error) {
	if !options.TermsOfServiceAgreed {
		return nil, errors.New("terms not agreed")
	}
	f.registered = true
	return &registration.Resource{}, nil
}

func (f *fakeOrderer) SetHTTP01Provider(provider challenge.Provider) error {
	f.providerSet = true
	return nil
}

func (f *fakeOrderer) Obtain(request certificate.ObtainRequest) (*certificate.Resource, error) {
	f.obtained = append(f.obtained, request)
	if f.obtainErr != nil {
		return nil, f.obtainErr
	}
	return &certificate.Resource{
		Certificate: []byte("chain-pem"),
		PrivateKey:  []byte("key-pem"),
	}, nil
}

func newTestClient(t *testing.T, fake *fakeOrderer, cfg LegoConfig) *LegoClient {
	t.Helper()

	if cfg.WebrootDir == "" {
		cfg.WebrootDir = t.TempDir()
	}
	c, err := NewLegoClient(cfg)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	c.factory = func(*lego.Config) (orderer, error) { return fake, nil }
	return c
}

func TestLegoClientDirectorySelection(t *testing.T) {
	tests := []struct {
		name string
		cfg  LegoConfig
		want string
	}{
		{"production default", LegoConfig{WebrootDir: "x"}, lego.LEDirectoryProduction},
		{"staging flag", LegoConfig{WebrootDir: "x", Staging: true}, lego.LEDirectoryStaging},
		{"explicit override", LegoConfig{WebrootDir: "x", Staging: true, DirectoryURL: "https://pebble.local/dir"}, "https://pebble.local/dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewLegoClient(tt.cfg)
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}
			if got := c.DirectoryURL(); got != tt.want {
				t.Errorf("DirectoryURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLegoClientRequiresWebroot(t *testing.T) {
	if _, err := NewLegoClient(LegoConfig{}); err == nil {
		t.Error("expected error for missing webroot directory")
	}
}

func TestLegoClientObtain(t *testing.T) {
	fake := &fakeOrderer{}
	c := newTestClient(t, fake, LegoConfig{})

	issued, err := c.Obtain(context.Background(), OrderRequest{
		Domains: []string{"example.com", "www.example.com"},
		Email:   "ops@example.com",
	})
	if err != nil {
		t.Fatalf("obtain failed: %v", err)
	}

	if !fake.registered {
		t.Error("expected account registration")
	}
	if !fake.providerSet {
		t.Error("expected http-01 provider to be set")
	}
	if len(fake.obtained) != 1 {
		t.Fatalf("expected one obtain call, got %d", len(fake.obtained))
	}
	if got := fake.obtained[0].Domains; len(got) != 2 || got[0] != "example.com" {
		t.Errorf("unexpected order domains: %v", got)
	}
	if !fake.obtained[0].Bundle {
		t.Error("expected bundled chain in the order request")
	}
	if string(issued.ChainPEM) != "chain-pem" || string(issued.KeyPEM) != "key-pem" {
		t.Error("issued material does not match CA response")
	}
}

func TestLegoClientObtainClassifiesFailure(t *testing.T) {
	fake := &fakeOrderer{obtainErr: errors.New("acme: error: 429 :: too many certificates")}
	c := newTestClient(t, fake, LegoConfig{})

	_, err := c.Obtain(context.Background(), OrderRequest{Domains: []string{"example.com"}})
	if err == nil {
		t.Fatal("expected error")
	}

	var oe *OrderError
	if !errors.As(err, &oe) {
		t.Fatalf("expected OrderError, got %T", err)
	}
	if oe.Class != ClassRateLimit {
		t.Errorf("expected rate_limit class, got %s", oe.Class)
	}
}

func TestLegoClientObtainEmptyDomains(t *testing.T) {
	c := newTestClient(t, &fakeOrderer{}, LegoConfig{})

	if _, err := c.Obtain(context.Background(), OrderRequest{}); err == nil {
		t.Error("expected error for empty domain set")
	}
}

func TestParseKeyType(t *testing.T) {
	valid := []string{"ec256", "EC384", "rsa2048", "rsa4096", ""}
	for _, name := range valid {
		if _, err := ParseKeyType(name); err != nil {
			t.Errorf("expected %q to parse, got %v", name, err)
		}
	}

	if _, err := ParseKeyType("dsa"); err == nil {
		t.Error("expected error for unknown key type")
	}

	kt, err := ParseKeyType("ec256")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if kt != certcrypto.EC256 {
		t.Errorf("expected EC256, got %s", kt)
	}
}
