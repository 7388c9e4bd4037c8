package config

import (
	"fmt"
	"runtime"
	"strconv"
	"time"
)

// DeploymentStrategy names a zero-downtime rollout strategy for the
// Process Supervisor.
type DeploymentStrategy string

const (
	// StrategyBlueGreen brings up a parallel fleet on a new generation
	// before draining the old one.
	StrategyBlueGreen DeploymentStrategy = "blue_green"

	// StrategyRolling replaces workers one at a time.
	StrategyRolling DeploymentStrategy = "rolling"

	// StrategySocketHandoff hands listening sockets to a new executable
	// image.
	StrategySocketHandoff DeploymentStrategy = "socket_handoff"
)

func (s DeploymentStrategy) valid() bool {
	switch s {
	case StrategyBlueGreen, StrategyRolling, StrategySocketHandoff:
		return true
	default:
		return false
	}
}

// Settings holds every recognized runtime tunable. Fields default to the
// values documented in the spec when their environment variable is unset.
type Settings struct {
	// WorkerCount is the number of worker slots the Supervisor maintains.
	// Env: WORKER_COUNT. Default: runtime.NumCPU().
	WorkerCount int

	// DeploymentStrategy selects the zero-downtime rollout strategy.
	// Env: DEPLOYMENT_STRATEGY. Default: StrategyRolling.
	DeploymentStrategy DeploymentStrategy

	// WorkerRestartBackoff is the initial restart back-off for a crashed
	// worker. Env: WORKER_RESTART_BACKOFF_MS. Default: 100ms.
	WorkerRestartBackoff time.Duration

	// HealthCheckInterval is how often the Health Checker runs all probes.
	// Env: HEALTH_CHECK_INTERVAL (seconds). Default: 30s.
	HealthCheckInterval time.Duration

	// HealthThresholdPercent is the target availability percentage over a
	// rolling 24h window. Env: HEALTH_THRESHOLD. Default: 99.999.
	HealthThresholdPercent float64

	// HealthEndpointPath is the HTTP path serving the health rollup.
	// Env: HEALTH_ENDPOINT_PATH. Default: "/health".
	HealthEndpointPath string

	// TracingSamplingRatio is the fraction of traces sampled, in [0,1].
	// Env: TRACING_SAMPLING_RATIO. Default: 1.0.
	TracingSamplingRatio float64

	// MonitoringDashboardPort is the port metrics/health are served on.
	// Env: MONITORING_DASHBOARD_PORT. Default: 9090.
	MonitoringDashboardPort int

	// TracingBackend names the trace exporter (otlp|jaeger|stdout|none).
	// Env: TRACING_BACKEND. Default: "stdout".
	TracingBackend string

	// TracingEndpoint is the collector endpoint for the configured
	// tracing backend, when applicable. Env: TRACING_ENDPOINT.
	TracingEndpoint string

	// MonitoringEnabled toggles the metrics subsystem.
	// Env: MONITORING_ENABLED. Default: true.
	MonitoringEnabled bool

	// HealthMonitoringEnabled toggles the health checker subsystem.
	// Env: HEALTH_MONITORING_ENABLED. Default: true.
	HealthMonitoringEnabled bool

	// ObservabilityCorrelation toggles correlation-id propagation across
	// spans, metrics, and health probes. Env: OBSERVABILITY_CORRELATION.
	// Default: true.
	ObservabilityCorrelation bool

	// MonitoringPrometheus exposes a Prometheus text-exposition endpoint
	// at /metrics. Env: MONITORING_PROMETHEUS. Default: false.
	MonitoringPrometheus bool
}

// defaults returns the base settings before environment overrides are
// applied.
func defaults() Settings {
	return Settings{
		WorkerCount:              runtime.NumCPU(),
		DeploymentStrategy:       StrategyRolling,
		WorkerRestartBackoff:     100 * time.Millisecond,
		HealthCheckInterval:      30 * time.Second,
		HealthThresholdPercent:   99.999,
		HealthEndpointPath:       "/health",
		TracingSamplingRatio:     1.0,
		MonitoringDashboardPort:  9090,
		TracingBackend:           "stdout",
		MonitoringEnabled:        true,
		HealthMonitoringEnabled:  true,
		ObservabilityCorrelation: true,
		MonitoringPrometheus:     false,
	}
}

// Load builds Settings from environment variables read through getenv,
// validating every recognized value. An empty string from getenv means
// "unset" and the default is used; any other malformed or out-of-range
// value is rejected with ErrConfigInvalid.
func Load(getenv func(string) string) (Settings, error) {
	s := defaults()

	if v := getenv("WORKER_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Settings{}, fmt.Errorf("%w: WORKER_COUNT=%q must be a positive integer", ErrConfigInvalid, v)
		}
		s.WorkerCount = n
	}

	if v := getenv("DEPLOYMENT_STRATEGY"); v != "" {
		strat := DeploymentStrategy(v)
		if !strat.valid() {
			return Settings{}, fmt.Errorf("%w: DEPLOYMENT_STRATEGY=%q must be one of blue_green, rolling, socket_handoff", ErrConfigInvalid, v)
		}
		s.DeploymentStrategy = strat
	}

	if v := getenv("WORKER_RESTART_BACKOFF_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Settings{}, fmt.Errorf("%w: WORKER_RESTART_BACKOFF_MS=%q must be a non-negative integer", ErrConfigInvalid, v)
		}
		s.WorkerRestartBackoff = time.Duration(n) * time.Millisecond
	}

	if v := getenv("HEALTH_CHECK_INTERVAL"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n <= 0 {
			return Settings{}, fmt.Errorf("%w: HEALTH_CHECK_INTERVAL=%q must be a positive number of seconds", ErrConfigInvalid, v)
		}
		s.HealthCheckInterval = time.Duration(n * float64(time.Second))
	}

	if v := getenv("HEALTH_THRESHOLD"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 || n > 100 {
			return Settings{}, fmt.Errorf("%w: HEALTH_THRESHOLD=%q must be a percentage in [0,100]", ErrConfigInvalid, v)
		}
		s.HealthThresholdPercent = n
	}

	if v := getenv("HEALTH_ENDPOINT_PATH"); v != "" {
		if v[0] != '/' {
			return Settings{}, fmt.Errorf("%w: HEALTH_ENDPOINT_PATH=%q must start with /", ErrConfigInvalid, v)
		}
		s.HealthEndpointPath = v
	}

	if v := getenv("TRACING_SAMPLING_RATIO"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 || n > 1 {
			return Settings{}, fmt.Errorf("%w: TRACING_SAMPLING_RATIO=%q must be in [0.0,1.0]", ErrConfigInvalid, v)
		}
		s.TracingSamplingRatio = n
	}

	if v := getenv("MONITORING_DASHBOARD_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 65535 {
			return Settings{}, fmt.Errorf("%w: MONITORING_DASHBOARD_PORT=%q must be a valid TCP port", ErrConfigInvalid, v)
		}
		s.MonitoringDashboardPort = n
	}

	if v := getenv("TRACING_BACKEND"); v != "" {
		switch v {
		case "otlp", "jaeger", "stdout", "none":
			s.TracingBackend = v
		default:
			return Settings{}, fmt.Errorf("%w: TRACING_BACKEND=%q must be one of otlp, jaeger, stdout, none", ErrConfigInvalid, v)
		}
	}

	s.TracingEndpoint = getenv("TRACING_ENDPOINT")

	if v := getenv("MONITORING_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: MONITORING_ENABLED=%q must be a boolean", ErrConfigInvalid, v)
		}
		s.MonitoringEnabled = b
	}

	if v := getenv("HEALTH_MONITORING_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: HEALTH_MONITORING_ENABLED=%q must be a boolean", ErrConfigInvalid, v)
		}
		s.HealthMonitoringEnabled = b
	}

	if v := getenv("OBSERVABILITY_CORRELATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: OBSERVABILITY_CORRELATION=%q must be a boolean", ErrConfigInvalid, v)
		}
		s.ObservabilityCorrelation = b
	}

	if v := getenv("MONITORING_PROMETHEUS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: MONITORING_PROMETHEUS=%q must be a boolean", ErrConfigInvalid, v)
		}
		s.MonitoringPrometheus = b
	}

	return s, nil
}
