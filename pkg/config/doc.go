// Package config provides configuration management for Atlas.
//
// Both Atlas processes (the certificate lifecycle manager and the edge
// coordinator) read the same YAML file, which keeps the shared
// filesystem contract (certificate directory, webroot, journal path)
// defined in exactly one place.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention ATLAS_SECTION_FIELD.
// For example:
//
//   - ATLAS_STAGE overrides stage
//   - ATLAS_ACME_EMAIL overrides acme.email
//   - ATLAS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based
// configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later
// overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
// Here is a minimal production configuration file:
//
//	domain: "example.com"
//	alt_names: ["www.example.com"]
//	stage: "production"
//
//	acme:
//	  email: "ops@example.com"
//
//	certs:
//	  base_dir: "/etc/letsencrypt/live"
//
//	nginx:
//	  upstream: "127.0.0.1:3000"
package config
