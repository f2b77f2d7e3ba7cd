// Package certstore implements the shared certificate store that the
// lifecycle manager and the edge watcher coordinate through.
//
// The store holds one bundle (certificate chain + private key) per domain
// under a fixed path contract:
//
//	{base}/{domain}/fullchain.pem
//	{base}/{domain}/privkey.pem
//
// The lifecycle manager is the only writer; the edge process reads and
// watches. All writes are atomic (temp file + rename) so a reader never
// observes a torn bundle. Store is an interface so tests can substitute
// the in-memory implementation for the filesystem-backed one.
package certstore
