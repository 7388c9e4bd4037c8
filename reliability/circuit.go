package reliability

import (
	"context"
	"sync"
	"time"
)

// CircuitState represents the circuit breaker state.
type CircuitState int

const (
	// CircuitClosed means the circuit is operating normally.
	CircuitClosed CircuitState = iota
	// CircuitOpen means the circuit is fast-failing all calls.
	CircuitOpen
	// CircuitHalfOpen means the circuit is probing whether the scope recovered.
	CircuitHalfOpen
)

// String returns the string representation of the state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// CircuitConfig configures a Circuit.
type CircuitConfig struct {
	// FailureThreshold is the number of consecutive failures before the
	// circuit opens. Default: 5.
	FailureThreshold int

	// SuccessThreshold is the number of consecutive successes in
	// half-open state required to close the circuit. Default: 3.
	SuccessThreshold int

	// RecoveryDelay is how long the circuit stays open before allowing a
	// probe call through as half-open. Default: 10ms.
	//
	// This value is aggressively short for most downstream services; it
	// mirrors a source constant whose rationale (product requirement
	// versus tuning artifact) was never documented. Operators should
	// tune it for their own call sites.
	RecoveryDelay time.Duration

	// OnStateChange is called, outside the circuit's lock, whenever the
	// state transitions.
	OnStateChange func(from, to CircuitState)

	// IsFailure determines if an error returned by op counts as a
	// circuit failure. Default: all non-nil errors are failures.
	IsFailure func(err error) bool
}

func (c *CircuitConfig) applyDefaults() {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 3
	}
	if c.RecoveryDelay <= 0 {
		c.RecoveryDelay = 10 * time.Millisecond
	}
	if c.IsFailure == nil {
		c.IsFailure = func(err error) bool { return err != nil }
	}
}

// Circuit implements the circuit breaker pattern for one protected scope.
type Circuit struct {
	config CircuitConfig

	mu                  sync.Mutex
	state               CircuitState
	consecutiveFailures int
	consecutiveSuccess  int
	lastFailure         time.Time
	calls               int64
	failures            int64
	successes           int64
	stateChanges        int64
}

// NewCircuit creates a new Circuit with the given configuration.
func NewCircuit(config CircuitConfig) *Circuit {
	config.applyDefaults()
	return &Circuit{
		config: config,
		state:  CircuitClosed,
	}
}

// Execute runs op through the circuit. It returns ErrCircuitOpen without
// invoking op if the circuit is open; otherwise it returns op's own
// error, if any. In half-open every call runs op; the number of
// concurrent calls is not limited.
func (c *Circuit) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := c.beforeCall(); err != nil {
		return err
	}

	err := op(ctx)
	c.afterCall(err)
	return err
}

// State returns the current circuit state, resolving an elapsed
// recovery delay into half-open as a side effect.
func (c *Circuit) State() CircuitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentStateLocked()
}

// ForceOpen forces the circuit into the open state regardless of counters.
func (c *Circuit) ForceOpen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastFailure = time.Now()
	c.transitionLocked(CircuitOpen)
}

// ForceClosed forces the circuit into the closed state and clears counters.
func (c *Circuit) ForceClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveFailures = 0
	c.consecutiveSuccess = 0
	c.transitionLocked(CircuitClosed)
}

// Reset restores the circuit to closed state with zeroed counters. It is
// idempotent.
func (c *Circuit) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveFailures = 0
	c.consecutiveSuccess = 0
	c.calls = 0
	c.failures = 0
	c.successes = 0
	c.stateChanges = 0
	c.lastFailure = time.Time{}
	c.state = CircuitClosed
}

func (c *Circuit) beforeCall() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.currentStateLocked()
	c.calls++

	switch state {
	case CircuitOpen:
		c.failures++
		return ErrCircuitOpen
	case CircuitHalfOpen:
		// The call runs op; afterCall counts its outcome toward
		// SuccessThreshold or reopens the circuit.
	}
	return nil
}

func (c *Circuit) afterCall(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	isFailure := c.config.IsFailure(err)

	switch c.state {
	case CircuitClosed:
		if isFailure {
			c.failures++
			c.consecutiveFailures++
			c.consecutiveSuccess = 0
			c.lastFailure = time.Now()
			if c.consecutiveFailures >= c.config.FailureThreshold {
				c.transitionLocked(CircuitOpen)
			}
		} else {
			c.successes++
			c.consecutiveFailures = 0
		}

	case CircuitHalfOpen:
		if isFailure {
			c.failures++
			c.consecutiveSuccess = 0
			c.lastFailure = time.Now()
			c.transitionLocked(CircuitOpen)
		} else {
			c.successes++
			c.consecutiveSuccess++
			if c.consecutiveSuccess >= c.config.SuccessThreshold {
				c.consecutiveFailures = 0
				c.consecutiveSuccess = 0
				c.transitionLocked(CircuitClosed)
			}
		}
	}
}

// currentStateLocked resolves an open circuit into half-open once the
// recovery delay has elapsed since the last failure. Callers must hold c.mu.
func (c *Circuit) currentStateLocked() CircuitState {
	if c.state == CircuitOpen && time.Since(c.lastFailure) >= c.config.RecoveryDelay {
		c.transitionLocked(CircuitHalfOpen)
	}
	return c.state
}

func (c *Circuit) transitionLocked(to CircuitState) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.stateChanges++
	if c.config.OnStateChange != nil {
		c.config.OnStateChange(from, to)
	}
}

// CircuitStats reports circuit counters and derived values.
type CircuitStats struct {
	State        CircuitState
	Calls        int64
	Failures     int64
	Successes    int64
	StateChanges int64
	FailureRate  float64 // percent, 0 when Calls == 0
	LastFailure  time.Time
}

// Stats returns a snapshot of the circuit's counters.
func (c *Circuit) Stats() CircuitStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var rate float64
	if c.calls > 0 {
		rate = float64(c.failures) / float64(c.calls) * 100
	}

	return CircuitStats{
		State:        c.currentStateLocked(),
		Calls:        c.calls,
		Failures:     c.failures,
		Successes:    c.successes,
		StateChanges: c.stateChanges,
		FailureRate:  rate,
		LastFailure:  c.lastFailure,
	}
}
