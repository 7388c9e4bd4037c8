package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for operations and exposes a
// pull-based snapshot, per spec 4.I ("export is pull-based ... or push to
// a configured endpoint" — OTel's PeriodicReader covers push; Snapshot
// covers pull).
//
// Thread safety: implementations are safe for concurrent use.
type Metrics interface {
	// RecordExecution records an operation's duration and error status.
	RecordExecution(ctx context.Context, meta OperationMeta, duration time.Duration, err error)

	// Snapshot returns a point-in-time copy of counters tracked in
	// process memory, keyed by operation name, for pull-based consumers
	// that don't speak OTLP/Prometheus.
	Snapshot() map[string]OperationStats
}

// OperationStats is the in-memory rollup for one operation name.
type OperationStats struct {
	Calls    int64
	Errors   int64
	TotalDur time.Duration
}

type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram

	mu    sync.Mutex
	stats map[string]OperationStats
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"operation.exec.total",
		metric.WithDescription("Total number of operation executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"operation.exec.errors",
		metric.WithDescription("Total number of operation execution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"operation.exec.duration_ms",
		metric.WithDescription("Operation execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		stats:        make(map[string]OperationStats),
	}, nil
}

func (m *metricsImpl) RecordExecution(ctx context.Context, meta OperationMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation.name", meta.Name),
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("operation.component", meta.Component))
	}
	if id, ok := CorrelationID(ctx); ok {
		attrs = append(attrs, attribute.String("correlation.id", id))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)

	m.mu.Lock()
	s := m.stats[meta.Name]
	s.Calls++
	if err != nil {
		s.Errors++
	}
	s.TotalDur += duration
	m.stats[meta.Name] = s
	m.mu.Unlock()
}

func (m *metricsImpl) Snapshot() map[string]OperationStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]OperationStats, len(m.stats))
	for k, v := range m.stats {
		out[k] = v
	}
	return out
}

type noopMetrics struct{}

func (m *noopMetrics) RecordExecution(ctx context.Context, meta OperationMeta, duration time.Duration, err error) {
}

func (m *noopMetrics) Snapshot() map[string]OperationStats {
	return map[string]OperationStats{}
}
