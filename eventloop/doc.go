// Package eventloop implements the single-threaded cooperative scheduler
// each Worker runs on.
//
// It exposes one contract, [Backend], with two interchangeable
// implementations:
//
//   - the primary backend: a timer heap plus a FIFO defer queue, with
//     readiness registration built on the POSIX select(2) call
//     (package syscall). It has no third-party dependencies. On Linux it
//     supports timers, defers and fd readiness; on other platforms it
//     supports timers and defers only, and fd registration returns
//     ErrBackendUnavailable.
//   - the accelerated backend: the same timer/defer machinery, with
//     readiness registration built on Linux epoll
//     (golang.org/x/sys/unix). It scales to far more file descriptors
//     than select(2)'s FD_SETSIZE allows, at the cost of being
//     Linux-only.
//
// [Hybrid] holds both and routes every registration to exactly one,
// switching between them as connection count crosses a configurable
// threshold.
//
// # Reentrancy
//
// Callbacks registered on a Backend run on that backend's single Run
// goroutine. A callback must never block or call back into the same
// Backend's Run synchronously; doing so deadlocks the loop.
package eventloop
