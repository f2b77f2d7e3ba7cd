package config

import "time"

// Config is the root configuration structure for Atlas. It is shared
// by the certificate lifecycle manager (certd) and the edge
// coordinator (edge), which only communicate through the paths named
// here.
type Config struct {
	// Domain is the primary domain the deployment serves. It names the
	// certificate directory under certs.base_dir and becomes the
	// certificate's common name.
	Domain string `yaml:"domain"`

	// AltNames lists additional domains covered by the certificate and
	// served by the proxy (e.g., the www. variant).
	AltNames []string `yaml:"alt_names"`

	// Stage selects the deployment stage: "dev" or "production".
	// In dev the proxy serves plain HTTP and no certificates are
	// requested. Default: "dev"
	Stage string `yaml:"stage"`

	// ACME contains certificate authority and challenge settings.
	ACME ACMEConfig `yaml:"acme"`

	// Certs contains the shared certificate store location.
	Certs CertsConfig `yaml:"certs"`

	// Nginx contains serving process settings used for configuration
	// rendering and reload control.
	Nginx NginxConfig `yaml:"nginx"`

	// Lifecycle contains timing for acquisition and renewal.
	Lifecycle LifecycleConfig `yaml:"lifecycle"`

	// Watcher contains timing for certificate change detection.
	Watcher WatcherConfig `yaml:"watcher"`

	// Journal contains configuration for the shared event journal.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ACMEConfig contains configuration for the ACME certificate authority
// integration.
type ACMEConfig struct {
	// Email is the account contact registered with the certificate
	// authority. Required in production.
	Email string `yaml:"email"`

	// Staging selects the authority's staging environment, which has
	// relaxed rate limits and issues untrusted certificates. Use it
	// when testing a new deployment.
	// Default: false
	Staging bool `yaml:"staging"`

	// DirectoryURL overrides the ACME directory endpoint entirely.
	// When set, Staging is ignored.
	DirectoryURL string `yaml:"directory_url"`

	// WebrootDir is the directory the proxy serves at
	// /.well-known/acme-challenge/ and the solver writes challenge
	// files into. Both processes must see the same path.
	// Default: "/var/www/certbot"
	WebrootDir string `yaml:"webroot_dir"`

	// KeyType is the certificate key type: "ec256", "ec384",
	// "rsa2048", or "rsa4096".
	// Default: "ec256"
	KeyType string `yaml:"key_type"`
}

// CertsConfig contains the location of the shared certificate store.
type CertsConfig struct {
	// BaseDir is the root of the certificate store. Each domain's
	// bundle lives at BaseDir/<domain>/{fullchain.pem,privkey.pem}.
	// Default: "/etc/letsencrypt/live"
	BaseDir string `yaml:"base_dir"`
}

// NginxConfig contains serving process settings.
type NginxConfig struct {
	// Binary is the nginx executable used for validation and reload.
	// Default: "nginx"
	Binary string `yaml:"binary"`

	// ConfPath is where the rendered server configuration is written
	// and what validation checks.
	// Default: "/etc/nginx/conf.d/atlas.conf"
	ConfPath string `yaml:"conf_path"`

	// Upstream is the host:port the proxy forwards application
	// traffic to.
	// Default: "127.0.0.1:3000"
	Upstream string `yaml:"upstream"`

	// MaxBodySize is the client_max_body_size value for proxied
	// requests (nginx size syntax, e.g. "50m").
	// Default: "50m"
	MaxBodySize string `yaml:"max_body_size"`
}

// LifecycleConfig contains timing for the acquisition and renewal loop.
type LifecycleConfig struct {
	// StartupDelay is how long the lifecycle manager waits before its
	// first tick, giving the proxy time to come up and serve the
	// challenge path.
	// Default: 10s
	StartupDelay time.Duration `yaml:"startup_delay"`

	// RenewInterval is the period between renewal checks. Most ticks
	// are no-ops; the interval only bounds how stale the expiry check
	// can be.
	// Default: 12h
	RenewInterval time.Duration `yaml:"renew_interval"`

	// MinValidity is the remaining-validity threshold below which a
	// certificate is renewed.
	// Default: 720h (30 days)
	MinValidity time.Duration `yaml:"min_validity"`
}

// WatcherConfig contains timing for certificate change detection in
// the edge coordinator.
type WatcherConfig struct {
	// PollInterval is the existence-poll period used before the first
	// certificate appears and as the fallback when filesystem
	// notifications are unavailable.
	// Default: 60s
	PollInterval time.Duration `yaml:"poll_interval"`

	// Debounce is the quiet period that folds the multi-file write of
	// a renewal into a single change event.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`
}

// JournalConfig contains configuration for the shared event journal.
type JournalConfig struct {
	// Enabled controls whether lifecycle and reload events are
	// recorded. The journal is observational; disabling it changes no
	// behavior.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file, on the shared volume so both
	// processes append to the same journal.
	// Default: "/var/lib/atlas/journal.db"
	Path string `yaml:"path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the process exposes metrics.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the metrics and health endpoint
	// binds to.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path metrics are served on.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
