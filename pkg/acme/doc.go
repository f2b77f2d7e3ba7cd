// Package acme wraps the external ACME client capability behind a small
// Client interface. The production implementation drives go-acme/lego
// with an HTTP-01 webroot solver: validation tokens are written under
// the challenge directory the reverse proxy serves at
// /.well-known/acme-challenge/, so domain validation completes through
// the proxy regardless of its active configuration mode.
//
// The package deliberately does not implement any ACME protocol detail
// itself; it only configures lego and classifies its failures.
package acme
