package eventloop

import "errors"

// Sentinel errors for event loop operations.
var (
	// ErrBackendUnavailable is returned when a backend is missing or
	// failed to start, e.g. requesting the accelerated backend on a
	// non-Linux GOOS.
	ErrBackendUnavailable = errors.New("eventloop: backend unavailable")

	// ErrUnknownCallback is returned by Cancel when the id does not
	// belong to this backend. Cancel treats this as a no-op, not a
	// caller-visible failure, but the error is exported for callers that
	// want to distinguish "already fired" from "never registered".
	ErrUnknownCallback = errors.New("eventloop: unknown callback id")

	// ErrLoopStopped is returned when registering against a backend
	// whose Run has already returned.
	ErrLoopStopped = errors.New("eventloop: loop stopped")
)
