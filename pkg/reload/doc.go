// Package reload watches the shared certificate store and coordinates
// graceful reloads of the serving process.
//
// The watcher is an explicit two-state machine. In StateAwaitingFirstCert
// it polls for the bundle's existence, which resolves the cold-start
// race where the proxy comes up in ACME bootstrap mode before any
// certificate exists. Once the bundle appears it moves to StateWatching
// and subscribes to change notifications for renewals. Every observed
// change goes through validate-then-reload: the serving process is only
// signalled after its candidate configuration validates, so a broken
// certificate can never take down a working configuration.
package reload
