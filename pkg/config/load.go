package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention ATLAS_SECTION_FIELD (e.g., ATLAS_ACME_EMAIL)
// and always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format ATLAS_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ATLAS_DOMAIN"); val != "" {
		cfg.Domain = val
	}
	if val := os.Getenv("ATLAS_ALT_NAMES"); val != "" {
		cfg.AltNames = splitList(val)
	}
	if val := os.Getenv("ATLAS_STAGE"); val != "" {
		cfg.Stage = val
	}

	// ACME overrides
	if val := os.Getenv("ATLAS_ACME_EMAIL"); val != "" {
		cfg.ACME.Email = val
	}
	if val := os.Getenv("ATLAS_ACME_STAGING"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.ACME.Staging = b
		}
	}
	if val := os.Getenv("ATLAS_ACME_DIRECTORY_URL"); val != "" {
		cfg.ACME.DirectoryURL = val
	}
	if val := os.Getenv("ATLAS_ACME_WEBROOT_DIR"); val != "" {
		cfg.ACME.WebrootDir = val
	}
	if val := os.Getenv("ATLAS_ACME_KEY_TYPE"); val != "" {
		cfg.ACME.KeyType = val
	}

	// Certificate store overrides
	if val := os.Getenv("ATLAS_CERTS_BASE_DIR"); val != "" {
		cfg.Certs.BaseDir = val
	}

	// Nginx overrides
	if val := os.Getenv("ATLAS_NGINX_BINARY"); val != "" {
		cfg.Nginx.Binary = val
	}
	if val := os.Getenv("ATLAS_NGINX_CONF_PATH"); val != "" {
		cfg.Nginx.ConfPath = val
	}
	if val := os.Getenv("ATLAS_NGINX_UPSTREAM"); val != "" {
		cfg.Nginx.Upstream = val
	}
	if val := os.Getenv("ATLAS_NGINX_MAX_BODY_SIZE"); val != "" {
		cfg.Nginx.MaxBodySize = val
	}

	// Lifecycle overrides
	if val := os.Getenv("ATLAS_LIFECYCLE_STARTUP_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Lifecycle.StartupDelay = d
		}
	}
	if val := os.Getenv("ATLAS_LIFECYCLE_RENEW_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Lifecycle.RenewInterval = d
		}
	}
	if val := os.Getenv("ATLAS_LIFECYCLE_MIN_VALIDITY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Lifecycle.MinValidity = d
		}
	}

	// Watcher overrides
	if val := os.Getenv("ATLAS_WATCHER_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watcher.PollInterval = d
		}
	}
	if val := os.Getenv("ATLAS_WATCHER_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watcher.Debounce = d
		}
	}

	// Journal overrides
	if val := os.Getenv("ATLAS_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("ATLAS_JOURNAL_PATH"); val != "" {
		cfg.Journal.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("ATLAS_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ATLAS_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ATLAS_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("ATLAS_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("ATLAS_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}

// splitList splits a comma-separated environment value into trimmed,
// non-empty entries.
func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
