// Package observability unifies tracing, metrics, and health correlation
// for the reliability core (spec 4.I).
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire a Manager into worker/supervisor
// dispatch paths or the reliability.Orchestrator directly.
//
// # Overview
//
// observability provides three pillars plus a cross-correlation layer:
//   - Tracing: OpenTelemetry spans carrying a correlation id and the
//     names of reliability components an operation crossed
//   - Metrics: execution counters and duration histograms, pull-snapshot
//     or push-exported
//   - Logging: structured JSON logging with automatic field redaction
//   - Registry: a neutral object reliability components register with,
//     so observability and reliability never import each other directly
//
// # Core Components
//
//   - [Manager]: main facade providing Tracer, Metrics, Logger, Registry
//   - [Tracer]: span creation with correlation ids and component trails
//   - [Metrics]: execution counts, errors, duration histograms, Snapshot
//   - [Logger]: structured JSON logging with sensitive field redaction
//   - [Instrumentation]: wraps an ExecuteFunc with all three
//   - [Registry]: holds registered [ReliabilityComponent]s for health/
//     metrics rollup without a back-reference from reliability
//
// # Quick Start
//
//	cfg := observability.Config{
//	    ServiceName: "reliacore",
//	    Tracing:     observability.TracingConfig{Enabled: true, Backend: "otlp", SamplingRatio: 1.0},
//	    Metrics:     observability.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observability.LoggingConfig{Enabled: true, Level: "info"},
//	}
//
//	mgr, err := observability.NewManager(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer mgr.Shutdown(ctx)
//
//	instr := observability.FromManager(mgr)
//	wrapped := instr.Wrap(originalExecuteFunc)
//	result, err := wrapped(ctx, observability.OperationMeta{Name: "dispatch"}, input)
//
// # Correlation
//
// [WithCorrelationID] attaches a correlation id to a context the first
// time it's called; nested operations inherit the same id. Spans,
// metric labels, and log entries all carry it when present.
// [RecordComponentCrossing] lets a collaborator note that a named
// reliability component (e.g. "bulkhead", "circuit") participated in the
// operation; [Tracer.EndOperation] attaches the accumulated trail to the
// span as reliability.components.
//
// # Sensitive Field Redaction
//
// The logger automatically redacts these fields to prevent credential
// leakage: input, inputs, password, secret, token, api_key, apiKey,
// credential. See [RedactedFields] for the complete list.
//
// # Exporter Configuration
//
// Tracing backends ([TracingConfig.Backend], from TRACING_BACKEND):
//   - "otlp"/"jaeger": OTLP gRPC, requires TRACING_ENDPOINT
//   - "stdout": console output
//   - "none" or "": disabled (no-op)
//
// Metrics exporters ([MetricsConfig.Exporter]):
//   - "otlp": OTLP gRPC, requires TRACING_ENDPOINT
//   - "prometheus": scrape endpoint, enabled via MONITORING_PROMETHEUS
//   - "stdout": console output
//   - "none" or "": disabled (no-op)
//
// # Thread Safety
//
// All exported types are safe for concurrent use after construction.
//
// # Error Handling
//
// Configuration errors (use errors.Is for checking):
//   - [ErrMissingServiceName], [ErrInvalidSamplingRatio],
//     [ErrInvalidTracingBackend], [ErrInvalidMetricsExporter],
//     [ErrInvalidLogLevel]
//
// Runtime errors:
//   - [ErrComponentAlreadyRegistered], returned by [Registry.Register]
//   - [ErrNilObserver], [ErrMissingOperationName]: declared, but no
//     function in this package returns them
//
// Exporter errors:
//   - [ErrEndpointNotConfigured], wrapped in the error NewManager returns
package observability
