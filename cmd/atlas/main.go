// Atlas is a TLS certificate lifecycle and reverse proxy coordinator.
//
// It runs as two cooperating processes that share a filesystem volume:
//
//   - atlas certd obtains certificates from an ACME certificate
//     authority and renews them before expiry.
//   - atlas edge selects the proxy configuration variant for the
//     deployment stage, then watches the certificate store and reloads
//     the proxy when the bundle changes.
//
// Usage:
//
//	# Start the certificate lifecycle manager
//	atlas certd --config /etc/atlas/config.yaml
//
//	# Start the edge coordinator
//	atlas edge --config /etc/atlas/config.yaml
//
//	# Render a configuration variant without writing it
//	atlas render --mode tls_active
//
//	# Inspect the stored certificate
//	atlas certs info example.com
//
//	# Show version information
//	atlas version
package main

func main() {
	Execute()
}
