package worker

import "errors"

// Sentinel errors for worker process operations.
var (
	// ErrAlreadyRunning is returned by Run when the process has already
	// transitioned past starting.
	ErrAlreadyRunning = errors.New("worker: process already running")

	// ErrNoListeners is returned when Run is called with no inherited
	// or bound listeners to accept on.
	ErrNoListeners = errors.New("worker: no listeners to accept on")

	// ErrGraceDeadlineExceeded is returned by Drain when in-flight
	// operations have not completed by the grace deadline.
	ErrGraceDeadlineExceeded = errors.New("worker: grace deadline exceeded")

	// ErrInvalidListenerFD indicates an inherited file descriptor could
	// not be reconstructed into a net.Listener.
	ErrInvalidListenerFD = errors.New("worker: invalid inherited listener fd")
)
