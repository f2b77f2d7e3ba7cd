package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
domain: "example.com"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Stage != DefaultStage {
		t.Errorf("expected default stage %q, got %q", DefaultStage, cfg.Stage)
	}
	if cfg.Certs.BaseDir != DefaultCertsBaseDir {
		t.Errorf("expected default base dir, got %q", cfg.Certs.BaseDir)
	}
	if cfg.Lifecycle.RenewInterval != DefaultRenewInterval {
		t.Errorf("expected default renew interval, got %v", cfg.Lifecycle.RenewInterval)
	}
	if cfg.Lifecycle.MinValidity != 720*time.Hour {
		t.Errorf("expected 30 day min validity, got %v", cfg.Lifecycle.MinValidity)
	}
	if cfg.Watcher.PollInterval != 60*time.Second {
		t.Errorf("expected 60s poll interval, got %v", cfg.Watcher.PollInterval)
	}
	if cfg.ACME.KeyType != "ec256" {
		t.Errorf("expected default key type ec256, got %q", cfg.ACME.KeyType)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Telemetry.Logging)
	}
}

func TestLoadConfigProduction(t *testing.T) {
	path := writeConfig(t, `
domain: "example.com"
alt_names: ["www.example.com"]
stage: "production"
acme:
  email: "ops@example.com"
  staging: true
lifecycle:
  renew_interval: 6h
  min_validity: 360h
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Stage != StageProduction {
		t.Errorf("expected production stage, got %q", cfg.Stage)
	}
	if !cfg.ACME.Staging {
		t.Error("expected staging true")
	}
	if cfg.Lifecycle.RenewInterval != 6*time.Hour {
		t.Errorf("expected 6h renew interval, got %v", cfg.Lifecycle.RenewInterval)
	}
	if len(cfg.AltNames) != 1 || cfg.AltNames[0] != "www.example.com" {
		t.Errorf("unexpected alt names: %v", cfg.AltNames)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := writeConfig(t, "domain: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Domain: "has space.example.com",
		Stage:  "production",
		ACME:   ACMEConfig{KeyType: "dsa"},
	}
	ApplyDefaults(cfg)
	cfg.Stage = "canary"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) < 3 {
		t.Errorf("expected at least 3 field errors, got %d: %v", len(verr.Errors), verr)
	}
	if !strings.Contains(err.Error(), "stage") {
		t.Errorf("expected stage error in message: %s", err.Error())
	}
}

func TestValidateProductionRequiresEmail(t *testing.T) {
	cfg := &Config{Domain: "example.com", Stage: "production"}
	ApplyDefaults(cfg)
	cfg.ACME.Email = ""

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "acme.email") {
		t.Errorf("expected acme.email error, got %v", err)
	}
}

func TestValidateDevWithoutEmail(t *testing.T) {
	cfg := &Config{Domain: "example.com"}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		t.Errorf("dev config without email should validate: %v", err)
	}
}

func TestValidateUpstream(t *testing.T) {
	cfg := &Config{Domain: "example.com"}
	ApplyDefaults(cfg)
	cfg.Nginx.Upstream = "no-port"

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "nginx.upstream") {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
domain: "example.com"
stage: "dev"
`)

	t.Setenv("ATLAS_STAGE", "production")
	t.Setenv("ATLAS_ACME_EMAIL", "env@example.com")
	t.Setenv("ATLAS_ALT_NAMES", "www.example.com, api.example.com")
	t.Setenv("ATLAS_LIFECYCLE_MIN_VALIDITY", "480h")
	t.Setenv("ATLAS_JOURNAL_ENABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Stage != StageProduction {
		t.Errorf("expected env override for stage, got %q", cfg.Stage)
	}
	if cfg.ACME.Email != "env@example.com" {
		t.Errorf("expected env override for email, got %q", cfg.ACME.Email)
	}
	if len(cfg.AltNames) != 2 || cfg.AltNames[1] != "api.example.com" {
		t.Errorf("unexpected alt names from env: %v", cfg.AltNames)
	}
	if cfg.Lifecycle.MinValidity != 480*time.Hour {
		t.Errorf("expected 480h min validity, got %v", cfg.Lifecycle.MinValidity)
	}
	if !cfg.Journal.Enabled {
		t.Error("expected journal enabled from env")
	}
}

func TestLoadConfigWithEnvOverridesRevalidates(t *testing.T) {
	path := writeConfig(t, `
domain: "example.com"
`)

	t.Setenv("ATLAS_STAGE", "production")
	// No email anywhere: the post-override validation must reject this.
	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Error("expected validation failure after env overrides")
	}
}

func TestIsDomainName(t *testing.T) {
	valid := []string{"example.com", "www.example.com", "a.b.c.example.co.uk", "xn--nxasmq6b.example"}
	for _, d := range valid {
		if !isDomainName(d) {
			t.Errorf("expected %q to be valid", d)
		}
	}

	invalid := []string{"", "has space.com", "http://example.com", "-bad.example.com", "trailing-.example.com", "a..b"}
	for _, d := range invalid {
		if isDomainName(d) {
			t.Errorf("expected %q to be invalid", d)
		}
	}
}
