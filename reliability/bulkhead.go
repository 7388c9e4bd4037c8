package reliability

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Default compartment settings, applied when a compartment is created
// lazily on first use.
const (
	DefaultMaxConcurrent = 100
	DefaultTimeout       = 30 * time.Second

	isolationFailureRate = 50.0 // percent; crossing this isolates a compartment
	healthyFailureRate   = 25.0 // percent; above this a compartment reports unhealthy
	healthyCooldown      = 5 * time.Second
)

// compartment is a named concurrency bucket. Its zero value is never
// exposed; use newCompartment.
type compartment struct {
	name          string
	maxConcurrent int64
	timeout       time.Duration
	sem           *semaphore.Weighted

	mu           sync.Mutex
	active       int64
	requests     int64
	successes    int64
	failures     int64
	lastFailure  time.Time
	isolated     bool
	isolatedAt   time.Time
	rollingMeanNS float64
}

func newCompartment(name string, maxConcurrent int64, timeout time.Duration) *compartment {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &compartment{
		name:          name,
		maxConcurrent: maxConcurrent,
		timeout:       timeout,
		sem:           semaphore.NewWeighted(maxConcurrent),
	}
}

// Bulkhead isolates concurrent operations into named compartments, each
// with its own capacity cap and auto-isolation on elevated failure rate.
type Bulkhead struct {
	mu           sync.Mutex
	compartments map[string]*compartment
}

// NewBulkhead creates an empty Bulkhead. Compartments are created lazily
// by Execute.
func NewBulkhead() *Bulkhead {
	return &Bulkhead{
		compartments: make(map[string]*compartment),
	}
}

func (b *Bulkhead) getOrCreate(name string) *compartment {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.compartments[name]
	if !ok {
		c = newCompartment(name, DefaultMaxConcurrent, DefaultTimeout)
		b.compartments[name] = c
	}
	return c
}

// Execute runs op within the named compartment, creating the compartment
// with default capacity if it does not yet exist.
//
// Ordering of checks: isolated flag, then capacity, then op runs, then
// counters update in a finally phase that always decrements active_count.
func (b *Bulkhead) Execute(ctx context.Context, name string, op func(context.Context) error) error {
	c := b.getOrCreate(name)

	c.mu.Lock()
	if c.isolated {
		c.mu.Unlock()
		return ErrCompartmentIsolated
	}
	if !c.sem.TryAcquire(1) {
		c.mu.Unlock()
		return ErrCompartmentAtCapacity
	}
	c.active++
	c.requests++
	c.mu.Unlock()

	start := time.Now()
	err := op(ctx)
	elapsed := time.Since(start)
	c.sem.Release(1)

	c.mu.Lock()
	c.active--
	if err != nil {
		c.failures++
		c.lastFailure = time.Now()
	} else {
		c.successes++
	}
	// Rolling mean is an exponential-style smoother (alpha=0.5), not a
	// true arithmetic mean: mean <- (mean + sample) / 2, with the first
	// sample taken as the mean itself. Preserved as
	// specified; documented here because the formula is easy to misread.
	sample := float64(elapsed.Nanoseconds())
	if c.rollingMeanNS == 0 {
		c.rollingMeanNS = sample
	} else {
		c.rollingMeanNS = (c.rollingMeanNS + sample) / 2
	}

	if err != nil {
		rate := failureRate(c.failures, c.requests)
		if rate > isolationFailureRate {
			c.isolated = true
			c.isolatedAt = time.Now()
		}
	}
	c.mu.Unlock()

	return err
}

func failureRate(failures, requests int64) float64 {
	if requests == 0 {
		return 0
	}
	return float64(failures) / float64(requests) * 100
}

// RecoverCompartment clears the isolated flag and resets failure
// counters and the last-failure timestamp for the named compartment. A
// no-op if the compartment does not exist; an existing compartment is
// reset whether or not it is isolated.
func (b *Bulkhead) RecoverCompartment(name string) {
	b.mu.Lock()
	c, ok := b.compartments[name]
	b.mu.Unlock()
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.isolated = false
	c.isolatedAt = time.Time{}
	c.failures = 0
	c.requests = c.successes
	c.lastFailure = time.Time{}
}

// IsCompartmentHealthy reports false if the named compartment is
// isolated, its failure rate exceeds 25%, or its last failure was less
// than 5s ago. A compartment that does not yet exist is healthy.
func (b *Bulkhead) IsCompartmentHealthy(name string) bool {
	b.mu.Lock()
	c, ok := b.compartments[name]
	b.mu.Unlock()
	if !ok {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isolated {
		return false
	}
	if failureRate(c.failures, c.requests) > healthyFailureRate {
		return false
	}
	if !c.lastFailure.IsZero() && time.Since(c.lastFailure) < healthyCooldown {
		return false
	}
	return true
}

// CompartmentStats reports a compartment's counters.
type CompartmentStats struct {
	Name          string
	Active        int64
	MaxConcurrent int64
	Requests      int64
	Successes     int64
	Failures      int64
	Isolated      bool
	IsolatedAt    time.Time
	LastFailure   time.Time
	RollingMean   time.Duration
}

// Stats returns a snapshot of the named compartment's counters. The zero
// value is returned, with Name set, if the compartment does not exist.
func (b *Bulkhead) Stats(name string) CompartmentStats {
	b.mu.Lock()
	c, ok := b.compartments[name]
	b.mu.Unlock()
	if !ok {
		return CompartmentStats{Name: name}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return CompartmentStats{
		Name:          c.name,
		Active:        c.active,
		MaxConcurrent: c.maxConcurrent,
		Requests:      c.requests,
		Successes:     c.successes,
		Failures:      c.failures,
		Isolated:      c.isolated,
		IsolatedAt:    c.isolatedAt,
		LastFailure:   c.lastFailure,
		RollingMean:   time.Duration(c.rollingMeanNS),
	}
}
