package reliability

import (
	"context"
	"sync"
	"time"
)

const (
	contextFailureWindow   = 1 * time.Second
	contextFailureCeiling  = 10
	contextIsolateAt       = 5
	estimatedFailureWeight = 10 * time.Millisecond
)

// reliabilityContext tracks the health of one named call scope.
type reliabilityContext struct {
	name               string
	healthy            bool
	degraded           bool
	cumulativeFailures int64
	lastFailure        time.Time
	createdAt          time.Time
}

// OrchestratorConfig configures an Orchestrator's component defaults.
type OrchestratorConfig struct {
	// CircuitConfig is used to construct the Circuit for each newly
	// created context. Zero value applies Circuit's own defaults.
	CircuitConfig CircuitConfig

	// SelfHealConfig configures the self-healer used to recover
	// unhealthy contexts. Zero value applies SelfHealer's own defaults.
	SelfHealConfig SelfHealConfig

	// CrossingHook, if set, is called whenever Execute passes an
	// operation into a named reliability component ("bulkhead",
	// "circuit", "selfheal"). It exists so a caller can bind in
	// observability.RecordComponentCrossing without this package
	// importing observability — the two depend on a shared function
	// signature, not on each other.
	CrossingHook func(ctx context.Context, component string)
}

func (o *Orchestrator) cross(ctx context.Context, component string) {
	if o.config.CrossingHook != nil {
		o.config.CrossingHook(ctx, component)
	}
}

// Orchestrator is the single entry point combining a Bulkhead, per-context
// Circuits, and a SelfHealer under Execute(ctx, name, op).
type Orchestrator struct {
	config    OrchestratorConfig
	bulkhead  *Bulkhead
	selfHeal  *SelfHealer
	startedAt time.Time

	mu       sync.Mutex
	contexts map[string]*reliabilityContext
	circuits map[string]*Circuit
}

// NewOrchestrator creates an Orchestrator. Contexts, their compartments,
// and their circuits are created lazily on first use.
func NewOrchestrator(config OrchestratorConfig) *Orchestrator {
	o := &Orchestrator{
		config:    config,
		bulkhead:  NewBulkhead(),
		startedAt: time.Now(),
		contexts:  make(map[string]*reliabilityContext),
		circuits:  make(map[string]*Circuit),
	}
	o.selfHeal = NewSelfHealer(config.SelfHealConfig, o.recoverContext, o.probeContext)
	return o
}

func (o *Orchestrator) getContext(name string) *reliabilityContext {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.contexts[name]
	if !ok {
		c = &reliabilityContext{
			name:      name,
			healthy:   true,
			createdAt: time.Now(),
		}
		o.contexts[name] = c
	}
	return c
}

func (o *Orchestrator) getCircuit(name string) *Circuit {
	o.mu.Lock()
	defer o.mu.Unlock()

	c, ok := o.circuits[name]
	if !ok {
		c = NewCircuit(o.config.CircuitConfig)
		o.circuits[name] = c
	}
	return c
}

// isHealthy applies the orchestrator's health gate: unhealthy if the
// context was explicitly marked unhealthy, a failure happened within the
// last second, cumulative failures exceed 10, or the bulkhead reports the
// compartment of the same name unhealthy.
func (o *Orchestrator) isHealthy(c *reliabilityContext) bool {
	o.mu.Lock()
	healthy := c.healthy
	recent := !c.lastFailure.IsZero() && time.Since(c.lastFailure) < contextFailureWindow
	overFailed := c.cumulativeFailures > contextFailureCeiling
	o.mu.Unlock()

	if !healthy || recent || overFailed {
		return false
	}
	return o.bulkhead.IsCompartmentHealthy(c.name)
}

// Execute runs op under the named context: the bulkhead compartment of
// the same name gates concurrency, then the context's circuit breaker
// fast-fails a failing scope. A context failing its health gate rejects
// immediately with ErrContextUnhealthy without invoking op.
func (o *Orchestrator) Execute(ctx context.Context, name string, op func(context.Context) error) error {
	rc := o.getContext(name)

	if !o.isHealthy(rc) {
		o.mu.Lock()
		rc.degraded = true
		o.mu.Unlock()
		return ErrContextUnhealthy
	}

	circuit := o.getCircuit(name)
	o.cross(ctx, "bulkhead")
	err := o.bulkhead.Execute(ctx, name, func(ctx context.Context) error {
		o.cross(ctx, "circuit")
		return circuit.Execute(ctx, op)
	})

	if err != nil {
		o.recordFailure(ctx, rc)
	}
	return err
}

func (o *Orchestrator) recordFailure(ctx context.Context, rc *reliabilityContext) {
	o.mu.Lock()
	rc.cumulativeFailures++
	rc.lastFailure = time.Now()
	isolate := rc.cumulativeFailures > contextIsolateAt
	if isolate {
		rc.healthy = false
	}
	name := rc.name
	o.mu.Unlock()

	o.cross(ctx, "selfheal")
	o.selfHeal.Trigger(ctx, name)
}

// recoverContext clears the bulkhead compartment's isolation state for
// name. Passed to SelfHealer as its RecoverFunc.
func (o *Orchestrator) recoverContext(name string) {
	o.bulkhead.RecoverCompartment(name)
}

// probeContext runs a no-op operation through the normal execution path
// to test whether a context has recovered. Passed to SelfHealer as its
// ProbeFunc.
func (o *Orchestrator) probeContext(ctx context.Context, name string) error {
	circuit := o.getCircuit(name)
	err := o.bulkhead.Execute(ctx, name, func(ctx context.Context) error {
		return circuit.Execute(ctx, func(context.Context) error { return nil })
	})
	if err != nil {
		return err
	}

	o.mu.Lock()
	rc := o.contexts[name]
	if rc != nil {
		rc.healthy = true
		rc.degraded = false
		rc.cumulativeFailures = 0
	}
	o.mu.Unlock()
	return nil
}

// IsDegraded reports whether name has been escalated to permanently
// degraded by the self-healer.
func (o *Orchestrator) IsDegraded(name string) bool {
	return o.selfHeal.IsDegraded(name)
}

// Uptime reports a coarse SLO gauge for name:
// max(0, min(100, (1 - estimated_failure_time/elapsed) * 100)), where
// estimated_failure_time = cumulative_failures * 10ms.
//
// This is a stand-in metric, not a measured availability guarantee: it
// treats every failure as if it cost a fixed 10ms of downtime, which can
// both over- and under-state real impact.
func (o *Orchestrator) Uptime(name string) float64 {
	o.mu.Lock()
	rc, ok := o.contexts[name]
	started := o.startedAt
	o.mu.Unlock()
	if !ok {
		return 100
	}

	elapsed := time.Since(started)
	if elapsed <= 0 {
		return 100
	}

	estimatedFailureTime := time.Duration(rc.cumulativeFailures) * estimatedFailureWeight
	ratio := (1 - float64(estimatedFailureTime)/float64(elapsed)) * 100

	if ratio < 0 {
		return 0
	}
	if ratio > 100 {
		return 100
	}
	return ratio
}

// ContextView adapts one named Orchestrator context to the method set an
// observability registry expects (Name/Status/Detail), without this
// package importing observability — see OrchestratorConfig.CrossingHook
// for the matching pattern on the other axis of the dependency.
type ContextView struct {
	o    *Orchestrator
	name string
}

// View returns a ContextView over the named context for registration with
// an external component registry.
func (o *Orchestrator) View(name string) ContextView {
	return ContextView{o: o, name: name}
}

// Name returns the context's name.
func (v ContextView) Name() string { return v.name }

// Status reports "healthy", "degraded", or "unhealthy" for the context.
func (v ContextView) Status() string {
	v.o.mu.Lock()
	rc, ok := v.o.contexts[v.name]
	v.o.mu.Unlock()
	if !ok {
		return "healthy"
	}
	if v.o.selfHeal.IsDegraded(v.name) {
		return "unhealthy"
	}
	if !v.o.isHealthy(rc) {
		return "degraded"
	}
	return "healthy"
}

// Detail returns cumulative failure count and uptime estimate for the
// context, for display in a health/metrics snapshot.
func (v ContextView) Detail() map[string]any {
	v.o.mu.Lock()
	rc, ok := v.o.contexts[v.name]
	var failures int64
	if ok {
		failures = rc.cumulativeFailures
	}
	v.o.mu.Unlock()

	return map[string]any{
		"cumulative_failures": failures,
		"uptime_percent":      v.o.Uptime(v.name),
	}
}
