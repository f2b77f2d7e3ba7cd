package config

import "time"

// Default values for configuration fields.
const (
	// Stage defaults
	DefaultStage = "dev"

	// ACME defaults
	DefaultACMEWebrootDir = "/var/www/certbot"
	DefaultACMEKeyType    = "ec256"

	// Certificate store defaults
	DefaultCertsBaseDir = "/etc/letsencrypt/live"

	// Nginx defaults
	DefaultNginxBinary      = "nginx"
	DefaultNginxConfPath    = "/etc/nginx/conf.d/atlas.conf"
	DefaultNginxUpstream    = "127.0.0.1:3000"
	DefaultNginxMaxBodySize = "50m"

	// Lifecycle defaults
	DefaultStartupDelay  = 10 * time.Second
	DefaultRenewInterval = 12 * time.Hour
	DefaultMinValidity   = 720 * time.Hour // 30 days

	// Watcher defaults
	DefaultWatcherPollInterval = 60 * time.Second
	DefaultWatcherDebounce     = 500 * time.Millisecond

	// Journal defaults
	DefaultJournalPath = "/var/lib/atlas/journal.db"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
)

// ApplyDefaults fills in default values for any unset configuration
// fields. It modifies the configuration in place.
func ApplyDefaults(cfg *Config) {
	if cfg.Stage == "" {
		cfg.Stage = DefaultStage
	}

	if cfg.ACME.WebrootDir == "" {
		cfg.ACME.WebrootDir = DefaultACMEWebrootDir
	}
	if cfg.ACME.KeyType == "" {
		cfg.ACME.KeyType = DefaultACMEKeyType
	}

	if cfg.Certs.BaseDir == "" {
		cfg.Certs.BaseDir = DefaultCertsBaseDir
	}

	if cfg.Nginx.Binary == "" {
		cfg.Nginx.Binary = DefaultNginxBinary
	}
	if cfg.Nginx.ConfPath == "" {
		cfg.Nginx.ConfPath = DefaultNginxConfPath
	}
	if cfg.Nginx.Upstream == "" {
		cfg.Nginx.Upstream = DefaultNginxUpstream
	}
	if cfg.Nginx.MaxBodySize == "" {
		cfg.Nginx.MaxBodySize = DefaultNginxMaxBodySize
	}

	if cfg.Lifecycle.StartupDelay == 0 {
		cfg.Lifecycle.StartupDelay = DefaultStartupDelay
	}
	if cfg.Lifecycle.RenewInterval == 0 {
		cfg.Lifecycle.RenewInterval = DefaultRenewInterval
	}
	if cfg.Lifecycle.MinValidity == 0 {
		cfg.Lifecycle.MinValidity = DefaultMinValidity
	}

	if cfg.Watcher.PollInterval == 0 {
		cfg.Watcher.PollInterval = DefaultWatcherPollInterval
	}
	if cfg.Watcher.Debounce == 0 {
		cfg.Watcher.Debounce = DefaultWatcherDebounce
	}

	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
