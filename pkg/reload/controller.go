package reload

import "context"

// Controller is the control interface of the serving process: check
// that the candidate configuration is loadable, and apply it without
// dropping in-flight connections. Both operations are assumed to be
// provided by the serving runtime; this package only sequences them.
type Controller interface {
	// Validate checks the candidate configuration, returning an error
	// describing the problem when it is not safe to load.
	Validate(ctx context.Context) error

	// Reload signals the serving process to swap to the current
	// configuration gracefully.
	Reload(ctx context.Context) error
}
