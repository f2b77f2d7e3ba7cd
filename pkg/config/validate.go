package config

import (
	"fmt"
	"net"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "acme.email").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Stage values accepted in configuration.
const (
	StageDev        = "dev"
	StageProduction = "production"
)

// Key types accepted in configuration.
var validKeyTypes = map[string]bool{
	"ec256":   true,
	"ec384":   true,
	"rsa2048": true,
	"rsa4096": true,
}

// Validate validates the entire configuration and returns a
// ValidationError if any validation rules fail. All validation errors
// are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateDomains(cfg)...)
	errs = append(errs, validateStage(cfg)...)
	errs = append(errs, validateACME(cfg)...)
	errs = append(errs, validateNginx(&cfg.Nginx)...)
	errs = append(errs, validateLifecycle(&cfg.Lifecycle)...)
	errs = append(errs, validateWatcher(&cfg.Watcher)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateDomains validates the primary domain and alternative names.
func validateDomains(cfg *Config) []FieldError {
	var errs []FieldError

	if cfg.Domain == "" {
		errs = append(errs, FieldError{
			Field:   "domain",
			Message: "domain is required",
		})
	} else if !isDomainName(cfg.Domain) {
		errs = append(errs, FieldError{
			Field:   "domain",
			Message: fmt.Sprintf("%q is not a valid domain name", cfg.Domain),
		})
	}

	for i, alt := range cfg.AltNames {
		if !isDomainName(alt) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("alt_names[%d]", i),
				Message: fmt.Sprintf("%q is not a valid domain name", alt),
			})
		}
	}

	return errs
}

// validateStage validates the deployment stage.
func validateStage(cfg *Config) []FieldError {
	if cfg.Stage != StageDev && cfg.Stage != StageProduction {
		return []FieldError{{
			Field:   "stage",
			Message: fmt.Sprintf("must be %q or %q, got %q", StageDev, StageProduction, cfg.Stage),
		}}
	}
	return nil
}

// validateACME validates certificate authority settings. The email is
// only required in production because dev deployments never order
// certificates.
func validateACME(cfg *Config) []FieldError {
	var errs []FieldError

	if cfg.Stage == StageProduction && cfg.ACME.Email == "" {
		errs = append(errs, FieldError{
			Field:   "acme.email",
			Message: "email is required in production",
		})
	}
	if cfg.ACME.Email != "" && !strings.Contains(cfg.ACME.Email, "@") {
		errs = append(errs, FieldError{
			Field:   "acme.email",
			Message: fmt.Sprintf("%q is not a valid email address", cfg.ACME.Email),
		})
	}
	if !validKeyTypes[cfg.ACME.KeyType] {
		errs = append(errs, FieldError{
			Field:   "acme.key_type",
			Message: fmt.Sprintf("must be one of ec256, ec384, rsa2048, rsa4096, got %q", cfg.ACME.KeyType),
		})
	}

	return errs
}

// validateNginx validates serving process settings.
func validateNginx(cfg *NginxConfig) []FieldError {
	var errs []FieldError

	if cfg.Upstream == "" {
		errs = append(errs, FieldError{
			Field:   "nginx.upstream",
			Message: "upstream address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.Upstream); err != nil {
		errs = append(errs, FieldError{
			Field:   "nginx.upstream",
			Message: fmt.Sprintf("must be host:port, got %q", cfg.Upstream),
		})
	}

	return errs
}

// validateLifecycle validates acquisition and renewal timing.
func validateLifecycle(cfg *LifecycleConfig) []FieldError {
	var errs []FieldError

	if cfg.StartupDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "lifecycle.startup_delay",
			Message: "startup delay must be non-negative",
		})
	}
	if cfg.RenewInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   "lifecycle.renew_interval",
			Message: "renew interval must be positive",
		})
	}
	if cfg.MinValidity <= 0 {
		errs = append(errs, FieldError{
			Field:   "lifecycle.min_validity",
			Message: "min validity must be positive",
		})
	}

	return errs
}

// validateWatcher validates change detection timing.
func validateWatcher(cfg *WatcherConfig) []FieldError {
	var errs []FieldError

	if cfg.PollInterval <= 0 {
		errs = append(errs, FieldError{
			Field:   "watcher.poll_interval",
			Message: "poll interval must be positive",
		})
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watcher.debounce",
			Message: "debounce must be non-negative",
		})
	}

	return errs
}

// validateTelemetry validates logging and metrics settings.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error, got %q", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be json or text, got %q", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: fmt.Sprintf("must be host:port, got %q", cfg.Metrics.ListenAddress),
			})
		}
	}

	return errs
}

// isDomainName reports whether s looks like a DNS name usable as a
// certificate subject. The check is intentionally shallow; the
// certificate authority is the final arbiter.
func isDomainName(s string) bool {
	if s == "" || len(s) > 253 {
		return false
	}
	if strings.ContainsAny(s, " /:@") {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}
