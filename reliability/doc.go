// Package reliability protects call sites that cross failure domains.
//
// It combines three patterns behind a single entry point:
//
//   - [Circuit]: a per-scope fast-fail state machine (closed/open/half-open).
//   - [Bulkhead]: named concurrency compartments with capacity caps and
//     auto-isolation on elevated failure rate.
//   - [SelfHealer]: back-off recovery attempts against an isolated
//     compartment, escalating to a permanently-degraded context when
//     recovery repeatedly fails.
//
// [Orchestrator] composes all three as `Execute(ctx, name, op)`: the
// bulkhead gates concurrency, the circuit breaker fast-fails a failing
// scope, and the self-healer runs in the background trying to bring a
// degraded context back.
//
// # Execution order
//
// Execute wraps operations outside-in as: bulkhead → circuit breaker → op.
// A rejection at either layer never invokes op.
//
// # Thread safety
//
// All exported types are safe for concurrent use after construction.
package reliability
