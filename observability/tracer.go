package observability

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OperationMeta identifies an operation crossing the reliability core for
// telemetry purposes: which named Orchestrator context it ran under, and
// which component (worker, supervisor, event loop, ...) initiated it.
type OperationMeta struct {
	Name      string // operation name, required
	Component string // owning component, e.g. "reliability.orchestrator"
}

// SpanName returns the deterministic span name for this operation.
func (m OperationMeta) SpanName() string {
	if m.Component != "" {
		return m.Component + "." + m.Name
	}
	return m.Name
}

type correlationIDKey struct{}
type componentTrailKey struct{}

// componentTrail accumulates the names of reliability components an
// operation passed through, e.g. "bulkhead", "circuit", "selfheal". It is
// threaded through context.Context so collaborators that never import
// observability can still contribute to it via RecordComponentCrossing.
type componentTrail struct {
	mu    sync.Mutex
	names []string
}

func (t *componentTrail) add(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range t.names {
		if n == name {
			return
		}
	}
	t.names = append(t.names, name)
}

func (t *componentTrail) snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// WithCorrelationID returns a context carrying a correlation id and an
// empty component trail. If ctx already carries a correlation id (a
// nested operation), it is returned unchanged so spans nest under the
// same id.
func WithCorrelationID(ctx context.Context) context.Context {
	if _, ok := CorrelationID(ctx); ok {
		return ctx
	}
	ctx = context.WithValue(ctx, correlationIDKey{}, uuid.NewString())
	return context.WithValue(ctx, componentTrailKey{}, &componentTrail{})
}

// CorrelationID returns the active correlation id, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey{}).(string)
	return id, ok
}

// RecordComponentCrossing notes that the named reliability component
// (e.g. "bulkhead", "circuit", "selfheal") participated in the operation
// carried by ctx. It is a no-op if ctx carries no correlation id — callers
// that don't care about tracing can ignore this entirely.
func RecordComponentCrossing(ctx context.Context, name string) {
	if trail, ok := ctx.Value(componentTrailKey{}).(*componentTrail); ok {
		trail.add(name)
	}
}

// Tracer wraps OpenTelemetry tracing with correlation-id and
// reliability-component-trail attribution (spec 4.I).
//
// Thread safety: implementations are safe for concurrent use.
type Tracer interface {
	// StartOperation starts a new span for an operation, attaching a
	// correlation id (new, or inherited from ctx for nested operations).
	StartOperation(ctx context.Context, meta OperationMeta) (context.Context, trace.Span)

	// EndOperation ends the span, recording the error status and the
	// reliability components the operation crossed.
	EndOperation(ctx context.Context, span trace.Span, err error)
}

type tracerImpl struct {
	tracer   trace.Tracer
	registry *Registry
}

func newTracer(t trace.Tracer, registry *Registry) Tracer {
	return &tracerImpl{tracer: t, registry: registry}
}

func (t *tracerImpl) StartOperation(ctx context.Context, meta OperationMeta) (context.Context, trace.Span) {
	ctx = WithCorrelationID(ctx)
	correlationID, _ := CorrelationID(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("operation.name", meta.Name),
		attribute.String("correlation.id", correlationID),
		attribute.Bool("operation.error", false),
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("operation.component", meta.Component))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndOperation(ctx context.Context, span trace.Span, err error) {
	if trail, ok := ctx.Value(componentTrailKey{}).(*componentTrail); ok {
		if names := trail.snapshot(); len(names) > 0 {
			span.SetAttributes(attribute.StringSlice("reliability.components", names))
		}
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("operation.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartOperation(ctx context.Context, meta OperationMeta) (context.Context, trace.Span) {
	return t.noop.Start(WithCorrelationID(ctx), meta.SpanName())
}

func (t *noopTracer) EndOperation(ctx context.Context, span trace.Span, err error) {
	span.End()
}
