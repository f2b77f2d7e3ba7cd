// Package lifecycle drives certificate acquisition and renewal.
//
// The manager is a five-state machine: no certificate, acquiring,
// valid, renewal due, renewing. It ticks once shortly after startup
// and then on a fixed schedule. Each tick is idempotent: when the
// stored certificate still has enough validity left the tick is a
// no-op and the bundle's modification time does not change, so the
// edge process sees nothing. A renewal only replaces the bundle after
// the freshly obtained material validates, which means a failed order
// can never clobber a working certificate.
package lifecycle
