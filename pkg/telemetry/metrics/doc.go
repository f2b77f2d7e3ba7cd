// Package metrics exposes Prometheus metrics for the certificate
// lifecycle manager and the edge reload coordinator: renewal outcomes,
// certificate expiry, watcher state and reload results. The collector
// is nil-safe so wiring it is optional in tests and one-shot commands.
package metrics
