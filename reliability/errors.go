package reliability

import "errors"

// Sentinel errors for reliability operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker is open.
	ErrCircuitOpen = errors.New("reliability: circuit breaker is open")

	// ErrCompartmentIsolated is returned when a bulkhead compartment has
	// isolated itself after an elevated failure rate.
	ErrCompartmentIsolated = errors.New("reliability: compartment is isolated")

	// ErrCompartmentAtCapacity is returned when a bulkhead compartment is
	// at its concurrency limit.
	ErrCompartmentAtCapacity = errors.New("reliability: compartment at capacity")

	// ErrContextUnhealthy is returned by the Orchestrator when a context
	// fails its health gate before op is invoked.
	ErrContextUnhealthy = errors.New("reliability: context is unhealthy")
)
