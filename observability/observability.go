package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/highperapp/reliacore/observability/exporters"
)

// Config holds the configuration for a Manager, mapped directly from
// config.Settings' tracing/monitoring fields.
type Config struct {
	ServiceName string
	Version     string

	Tracing TracingConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// TracingConfig configures the tracing subsystem. Enabled and
// SamplingRatio come from TRACING_SAMPLING_RATIO (a ratio of 0 is
// equivalent to disabled); Backend and Endpoint come from
// TRACING_BACKEND/TRACING_ENDPOINT.
type TracingConfig struct {
	Enabled       bool
	Backend       string // otlp|jaeger|stdout|none
	Endpoint      string
	SamplingRatio float64 // 0.0-1.0
}

// MetricsConfig configures the metrics subsystem. Enabled comes from
// MONITORING_ENABLED; Exporter is derived from MONITORING_PROMETHEUS
// (prometheus when true, otlp/stdout otherwise).
type MetricsConfig struct {
	Enabled  bool
	Exporter string // otlp|prometheus|stdout|none
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Enabled bool
	Level   string // debug|info|warn|error
}

var validTracingBackends = map[string]bool{"otlp": true, "jaeger": true, "stdout": true, "none": true, "": true}
var validMetricsExporters = map[string]bool{"otlp": true, "prometheus": true, "stdout": true, "none": true, "": true}
var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}

	if c.Tracing.Enabled {
		if !validTracingBackends[c.Tracing.Backend] {
			return fmt.Errorf("%w: %q", ErrInvalidTracingBackend, c.Tracing.Backend)
		}
		if c.Tracing.SamplingRatio < MinSamplingRatio || c.Tracing.SamplingRatio > MaxSamplingRatio {
			return fmt.Errorf("%w: got %f", ErrInvalidSamplingRatio, c.Tracing.SamplingRatio)
		}
	}

	if c.Metrics.Enabled && !validMetricsExporters[c.Metrics.Exporter] {
		return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter)
	}

	if c.Logging.Enabled && !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return nil
}

// Manager provides access to telemetry primitives and unifies tracing,
// metrics, and health under one correlation-id scheme (spec 4.I).
//
// Thread safety: implementations are safe for concurrent use.
type Manager interface {
	// Tracer returns the operation tracer.
	Tracer() Tracer

	// Metrics returns the operation metrics recorder.
	Metrics() Metrics

	// Logger returns the structured logger.
	Logger() Logger

	// Registry returns the reliability-component registry this Manager
	// correlates spans, metrics, and health against.
	Registry() *Registry

	// Shutdown gracefully shuts down all telemetry providers.
	Shutdown(ctx context.Context) error
}

// manager is the concrete implementation of Manager.
type manager struct {
	tracer         Tracer
	metrics        Metrics
	logger         Logger
	registry       *Registry
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// NewManager creates a new Manager with the given configuration.
func NewManager(ctx context.Context, cfg Config) (Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &manager{registry: newRegistry()}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if cfg.Tracing.Enabled {
		tp, otelTracer, err := setupTracing(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("failed to setup tracing: %w", err)
		}
		m.tracerProvider = tp
		m.tracer = newTracer(otelTracer, m.registry)
	} else {
		m.tracer = newTracer(tracenoop.NewTracerProvider().Tracer("noop"), m.registry)
	}

	if cfg.Metrics.Enabled {
		mp, meter, err := setupMetrics(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("failed to setup metrics: %w", err)
		}
		m.meterProvider = mp
		metrics, err := newMetrics(meter)
		if err != nil {
			return nil, fmt.Errorf("failed to register metric instruments: %w", err)
		}
		m.metrics = metrics
	} else {
		m.metrics = &noopMetrics{}
	}

	if cfg.Logging.Enabled {
		m.logger = NewLogger(cfg.Logging.Level)
	} else {
		m.logger = &noopLogger{}
	}

	return m, nil
}

func setupTracing(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, trace.Tracer, error) {
	exporter, err := exporters.NewTracingExporter(ctx, cfg.Tracing.Backend, cfg.Tracing.Endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.Tracing.SamplingRatio >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case cfg.Tracing.SamplingRatio <= 0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.Tracing.SamplingRatio)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	return tp, tp.Tracer(cfg.ServiceName), nil
}

func setupMetrics(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, metric.Meter, error) {
	reader, err := exporters.NewMetricsReader(ctx, cfg.Metrics.Exporter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create metrics reader: %w", err)
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if reader != nil {
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)

	return mp, mp.Meter(cfg.ServiceName), nil
}

func (m *manager) Tracer() Tracer         { return m.tracer }
func (m *manager) Metrics() Metrics       { return m.metrics }
func (m *manager) Logger() Logger         { return m.logger }
func (m *manager) Registry() *Registry    { return m.registry }

func (m *manager) Shutdown(ctx context.Context) error {
	var errs []error

	if m.tracerProvider != nil {
		if err := m.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if m.meterProvider != nil {
		if err := m.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
