// Package proxyconf selects and renders the reverse proxy configuration
// variant at process start.
//
// The selection is a pure function of the deployment stage and whether
// a certificate bundle exists on disk; it runs exactly once per process
// lifetime. Moving from the ACME bootstrap variant to full TLS does not
// require re-selection: the change watcher reloads the serving process
// in place, and a later restart naturally selects the TLS variant.
package proxyconf
