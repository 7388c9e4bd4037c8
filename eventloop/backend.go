package eventloop

import (
	"sync/atomic"
	"time"
)

// CallbackID identifies a registered timer, defer, or IO callback. IDs are
// opaque and unique per process, regardless of which Backend issued them.
type CallbackID uint64

var idCounter uint64

func nextID() CallbackID {
	return CallbackID(atomic.AddUint64(&idCounter, 1))
}

// Backend is the contract both event loop implementations satisfy.
// All methods except Run are safe to call from within a callback
// running on the same Backend, and from other goroutines while Run is
// executing; registrations take the backend's lock and wake its poller.
type Backend interface {
	// Name identifies the backend, e.g. "primary" or "accelerated".
	Name() string

	// Delay schedules cb to run once after d has elapsed.
	Delay(d time.Duration, cb func()) CallbackID

	// Repeat schedules cb to run every d until cancelled.
	Repeat(d time.Duration, cb func()) CallbackID

	// Defer schedules cb to run before the next IO poll, in FIFO order
	// relative to other deferred callbacks.
	Defer(cb func()) CallbackID

	// Cancel is idempotent and safe on an expired, already-fired, or
	// unknown id.
	Cancel(id CallbackID)

	// OnReadable schedules cb to run whenever fd becomes readable.
	OnReadable(fd int, cb func()) (CallbackID, error)

	// OnWritable schedules cb to run whenever fd becomes writable.
	OnWritable(fd int, cb func()) (CallbackID, error)

	// Run blocks, dispatching callbacks on the calling goroutine until
	// Stop is called.
	Run()

	// Stop requests Run to return. It is safe to call from another
	// goroutine or from within a callback.
	Stop()
}
