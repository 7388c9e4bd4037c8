package eventloop

import (
	"sync"
	"time"
)

const (
	// DefaultThreshold is the connection count at or above which Hybrid
	// routes new registrations to the accelerated backend, when
	// available. It mirrors select(2)'s FD_SETSIZE (1024): past this
	// point the primary backend's readiness poll stops scaling well.
	DefaultThreshold = 1024

	// DefaultHysteresis is how far below Threshold the connection count
	// must fall before Hybrid switches back to the primary backend.
	DefaultHysteresis = 128
)

// HybridConfig configures backend selection.
type HybridConfig struct {
	// Threshold is the connection count at or above which Hybrid
	// prefers the accelerated backend. Default: 1024.
	Threshold int64

	// Hysteresis is the margin below Threshold the connection count
	// must fall before switching back to primary. Default: 128.
	Hysteresis int64

	// AutoSwitch toggles dynamic re-routing on every threshold
	// crossing. When false, the backend chosen at construction (by
	// HighPerformanceMode) is used for the Hybrid's lifetime. Default:
	// false (the zero value); set it explicitly to enable re-routing.
	AutoSwitch bool

	// HighPerformanceMode hints that the accelerated backend should be
	// preferred regardless of connection count, when available.
	HighPerformanceMode bool
}

func (c *HybridConfig) applyDefaults() {
	if c.Threshold <= 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Hysteresis <= 0 {
		c.Hysteresis = DefaultHysteresis
	}
}

// HybridMetrics is the snapshot Hybrid surfaces for observability.
type HybridMetrics struct {
	ConnectionCount int64
	BackendInUse    string
	Switches        int64
}

// Hybrid holds both Backend implementations and routes every
// registration to exactly one, chosen by HybridConfig's selection
// policy and the observed connection count.
type Hybrid struct {
	config      HybridConfig
	primary     Backend
	accelerated Backend // nil when unavailable (non-Linux)

	mu              sync.Mutex
	current         Backend
	connectionCount int64
	switches        int64
	routes          map[CallbackID]Backend
}

// NewHybrid constructs a Hybrid. The accelerated backend is constructed
// best-effort; if unavailable (e.g. non-Linux), Hybrid falls back to
// primary for the Hybrid's lifetime regardless of configuration.
func NewHybrid(config HybridConfig) *Hybrid {
	config.applyDefaults()

	primary := NewPrimaryBackend()
	accelerated, err := NewAcceleratedBackend()
	if err != nil {
		accelerated = nil
	}

	h := &Hybrid{
		config:      config,
		primary:     primary,
		accelerated: accelerated,
		routes:      make(map[CallbackID]Backend),
	}

	h.current = primary
	if config.HighPerformanceMode && accelerated != nil {
		h.current = accelerated
	}
	return h
}

func (h *Hybrid) activeBackend() Backend {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// AddConnectionCount adjusts the observed connection count upward and
// re-evaluates backend selection when AutoSwitch is enabled.
func (h *Hybrid) AddConnectionCount(n int64) {
	h.mu.Lock()
	h.connectionCount += n
	h.mu.Unlock()
	h.maybeSwitch()
}

// RemoveConnectionCount adjusts the observed connection count downward,
// floored at zero, and re-evaluates backend selection.
func (h *Hybrid) RemoveConnectionCount(n int64) {
	h.mu.Lock()
	h.connectionCount -= n
	if h.connectionCount < 0 {
		h.connectionCount = 0
	}
	h.mu.Unlock()
	h.maybeSwitch()
}

func (h *Hybrid) maybeSwitch() {
	if !h.config.AutoSwitch || h.accelerated == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.current {
	case h.primary:
		if h.config.HighPerformanceMode || h.connectionCount >= h.config.Threshold {
			h.current = h.accelerated
			h.switches++
		}
	case h.accelerated:
		if !h.config.HighPerformanceMode && h.connectionCount < h.config.Threshold-h.config.Hysteresis {
			h.current = h.primary
			h.switches++
		}
	}
}

// Metrics returns a snapshot of connection count, active backend, and
// switch count.
func (h *Hybrid) Metrics() HybridMetrics {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HybridMetrics{
		ConnectionCount: h.connectionCount,
		BackendInUse:    h.current.Name(),
		Switches:        h.switches,
	}
}

func (h *Hybrid) route(id CallbackID, backend Backend) CallbackID {
	h.mu.Lock()
	h.routes[id] = backend
	h.mu.Unlock()
	return id
}

func (h *Hybrid) Delay(d time.Duration, cb func()) CallbackID {
	b := h.activeBackend()
	return h.route(b.Delay(d, cb), b)
}

func (h *Hybrid) Repeat(d time.Duration, cb func()) CallbackID {
	b := h.activeBackend()
	return h.route(b.Repeat(d, cb), b)
}

func (h *Hybrid) Defer(cb func()) CallbackID {
	b := h.activeBackend()
	return h.route(b.Defer(cb), b)
}

func (h *Hybrid) Cancel(id CallbackID) {
	h.mu.Lock()
	b, ok := h.routes[id]
	delete(h.routes, id)
	h.mu.Unlock()
	if ok {
		b.Cancel(id)
	}
}

func (h *Hybrid) OnReadable(fd int, cb func()) (CallbackID, error) {
	b := h.activeBackend()
	id, err := b.OnReadable(fd, cb)
	if err != nil {
		return 0, err
	}
	return h.route(id, b), nil
}

func (h *Hybrid) OnWritable(fd int, cb func()) (CallbackID, error) {
	b := h.activeBackend()
	id, err := b.OnWritable(fd, cb)
	if err != nil {
		return 0, err
	}
	return h.route(id, b), nil
}

// Run starts both backends' loops and blocks until Stop is called. Only
// one backend is ever chosen for new registrations at a time, but a
// prior backend's existing registrations must keep running after a
// switch, so both loops run concurrently on their own goroutines.
func (h *Hybrid) Run() {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.primary.Run()
	}()

	if h.accelerated != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.accelerated.Run()
		}()
	}

	wg.Wait()
}

// Stop stops both backends.
func (h *Hybrid) Stop() {
	h.primary.Stop()
	if h.accelerated != nil {
		h.accelerated.Stop()
	}
}

// Name reports the currently active backend's name.
func (h *Hybrid) Name() string {
	return h.activeBackend().Name()
}

var _ Backend = (*Hybrid)(nil)
