package certstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no bundle exists for the requested domain.
var ErrNotFound = errors.New("certificate bundle not found")

// ChangeEvent signals that the bundle for a domain was created or replaced.
type ChangeEvent struct {
	Domain string
	At     time.Time
}

// Store is the coordination surface between the two processes. The
// lifecycle manager writes bundles; the edge process loads, polls and
// watches them. Implementations must make Write atomic so a concurrent
// reader never sees a half-written bundle.
type Store interface {
	// Load reads the bundle for a domain. Returns ErrNotFound when
	// either the chain or the key file is missing.
	Load(domain string) (*Bundle, error)

	// Exists reports whether both the chain and key files are present.
	Exists(domain string) bool

	// ModTime returns the modification time of the chain file.
	ModTime(domain string) (time.Time, error)

	// Write replaces the bundle for a domain with new PEM material.
	Write(domain string, chainPEM, keyPEM []byte) error

	// Watch emits an event whenever the bundle for the domain changes.
	// The channel is closed when ctx is cancelled or the underlying
	// notification mechanism fails; callers are expected to fall back
	// to polling in that case.
	Watch(ctx context.Context, domain string) (<-chan ChangeEvent, error)
}
