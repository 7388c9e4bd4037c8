package observability

import (
	"context"
	"time"
)

// ExecuteFunc is the signature an Instrumentation wraps.
type ExecuteFunc func(ctx context.Context, op OperationMeta, input any) (any, error)

// Instrumentation wraps operation execution with tracing, metrics, and
// logging, implementing the traceOperation(name, fn, attrs) contract of
// spec 4.I in middleware form.
//
// Thread safety: Wrap returns a concurrency-safe ExecuteFunc.
type Instrumentation struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstrumentation builds an Instrumentation from its three components.
func NewInstrumentation(tracer Tracer, metrics Metrics, logger Logger) *Instrumentation {
	return &Instrumentation{tracer: tracer, metrics: metrics, logger: logger}
}

// FromManager builds an Instrumentation from a Manager's components.
func FromManager(m Manager) *Instrumentation {
	return NewInstrumentation(m.Tracer(), m.Metrics(), m.Logger())
}

// Wrap wraps fn with tracing, metrics, and logging.
func (i *Instrumentation) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, op OperationMeta, input any) (any, error) {
		ctx, span := i.tracer.StartOperation(ctx, op)
		start := time.Now()

		result, err := fn(ctx, op, input)

		duration := time.Since(start)
		i.tracer.EndOperation(ctx, span, err)
		i.metrics.RecordExecution(ctx, op, duration, err)

		opLogger := i.logger.WithOperation(op)
		fields := []Field{{Key: "duration_ms", Value: float64(duration.Milliseconds())}}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "operation failed", fields...)
		} else {
			opLogger.Info(ctx, "operation completed", fields...)
		}

		return result, err
	}
}
