// Package supervisor spawns, monitors, scales, and redeploys a fleet
// of Worker Process children as separate OS processes, sharing
// pre-bound listening sockets with them via file descriptor
// inheritance.
//
// # Lifecycle
//
// Run spawns Config.WorkerCount worker slots and blocks, restarting
// any slot whose process exits unexpectedly with an exponentially
// growing back-off (restartBackoff). A slot that restarts
// Config.CrashLoopThreshold times within Config.CrashLoopWindow aborts
// the whole fleet: Run calls Config.OnCrashLoopAbort, drains every
// remaining slot, and returns ErrCrashLoopAbort. Cancelling the
// context passed to Run, or calling GracefulStop directly, drains the
// fleet by SIGTERM with a Config.GraceDeadline before escalating to
// SIGKILL.
//
// # Scaling and deployment
//
// Scale adds or removes worker slots to reach a target count. Deploy
// replaces the whole fleet with a new generation according to
// Config.DeploymentStrategy: blue_green spawns a full parallel fleet
// and cuts over once every replacement reports ready; rolling and
// socket_handoff replace workers one at a time, draining each old
// worker only after its replacement's readiness handshake completes.
//
// # Readiness handshake
//
// Each spawned worker inherits the configured listeners plus one
// extra file descriptor: the write end of a pipe. A worker signals
// readiness by writing a line to it; awaitReady/awaitReadyBlocking
// read from the parent's end and flip the slot to WorkerReady.
package supervisor
