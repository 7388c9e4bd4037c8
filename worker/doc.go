// Package worker implements the Worker Process: one OS process that
// accepts connections on sockets inherited from a Supervisor and
// dispatches them through a Router collaborator under Reliability
// Orchestrator protection. A Process holds an eventloop.Backend but
// does not run it: accepting and dispatching run on goroutines, one per
// listener and one per connection.
//
// # Lifecycle
//
// A Process moves through four states: [StateStarting] while sockets
// and the event loop are being set up, [StateReady] while accepting,
// [StateDraining] once a TERM/INT signal or Stop arrives (no new
// accepts, in-flight operations run to completion up to
// Config.GraceDeadline), and [StateDead] once drained or the deadline
// is exceeded.
//
// USR2 invokes Config.OnReload without touching accepts — callers use
// it to swap in freshly loaded configuration.
//
// # Socket inheritance
//
// [InheritListeners] reconstructs the listeners a Supervisor bound and
// passed down as numbered file descriptors in RELIACORE_LISTENER_FDS,
// using net.FileListener the same way a Supervisor's child process
// would reconstruct any inherited listening socket.
//
// # Heartbeats
//
// When Config.HeartbeatWriter is set, Run writes one line per
// Config.HeartbeatInterval so a Supervisor watching the other end of a
// pipe can detect a hung or crashed Worker faster than waiting on
// process exit.
package worker
