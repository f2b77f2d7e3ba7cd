package journal

import (
	"context"
	"time"
)

// Event kinds recorded by the two processes.
const (
	KindIssued           = "issued"            // first acquisition succeeded
	KindRenewed          = "renewed"           // renewal replaced the bundle
	KindRenewNoop        = "renew_noop"        // tick ran, bundle not due
	KindRenewFailed      = "renew_failed"      // acquisition or renewal failed
	KindModeSelected     = "mode_selected"     // edge chose a config variant
	KindReloaded         = "reloaded"          // proxy reloaded gracefully
	KindValidationFailed = "validation_failed" // config validation blocked a reload
)

// Event is one journal entry.
type Event struct {
	// ID is a UUID assigned on record when empty.
	ID string

	// Time is the event time, assigned on record when zero.
	Time time.Time

	// Process is the recording process ("certd" or "edge").
	Process string

	// Kind is one of the Kind* constants.
	Kind string

	// Domain is the primary domain the event concerns.
	Domain string

	// Detail carries free-form context (error class, mode name, ...).
	Detail string
}

// Journal stores and retrieves events.
type Journal interface {
	// Record appends an event.
	Record(ctx context.Context, event *Event) error

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]*Event, error)

	// Close releases backend resources.
	Close() error
}
