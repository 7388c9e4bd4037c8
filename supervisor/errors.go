package supervisor

import "errors"

// Sentinel errors for supervisor operations.
var (
	// ErrCrashLoopAbort is returned by Run when a worker slot
	// has exceeded the crash-loop restart threshold within the
	// configured window. It is fatal to the fleet.
	ErrCrashLoopAbort = errors.New("supervisor: crash-loop abort")

	// ErrUnknownStrategy is returned when Deploy is asked to run a
	// deployment strategy this Supervisor does not recognize.
	ErrUnknownStrategy = errors.New("supervisor: unknown deployment strategy")

	// ErrNotRunning reports that an operation needs a started
	// Supervisor. No Supervisor method returns it: Scale, Deploy and
	// GracefulStop act on whatever slots exist, including none.
	ErrNotRunning = errors.New("supervisor: not running")

	// ErrSpawnFailed wraps an os/exec start failure for a worker slot.
	ErrSpawnFailed = errors.New("supervisor: failed to spawn worker")
)
