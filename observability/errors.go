package observability

import (
	"errors"

	"github.com/highperapp/reliacore/observability/exporters"
)

// Configuration errors.
var (
	// ErrMissingServiceName indicates Config.ServiceName is empty.
	ErrMissingServiceName = errors.New("observability: service name is required")

	// ErrInvalidSamplingRatio indicates Tracing.SamplingRatio is not in [0.0, 1.0].
	ErrInvalidSamplingRatio = errors.New("observability: sampling ratio must be between 0.0 and 1.0")

	// ErrInvalidTracingBackend indicates an unknown tracing backend name.
	ErrInvalidTracingBackend = errors.New("observability: invalid tracing backend")

	// ErrInvalidMetricsExporter indicates an unknown metrics exporter name.
	ErrInvalidMetricsExporter = errors.New("observability: invalid metrics exporter")

	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("observability: invalid log level")
)

// Runtime errors.
var (
	// ErrNilObserver reports a missing observer. No function in this
	// package returns it.
	ErrNilObserver = errors.New("observability: observer is nil")

	// ErrMissingOperationName reports an empty OperationMeta.Name. No
	// function in this package returns it; StartOperation and
	// RecordExecution accept an empty name.
	ErrMissingOperationName = errors.New("observability: operation name is required")

	// ErrComponentAlreadyRegistered indicates Registry.Register was
	// called twice with the same name.
	ErrComponentAlreadyRegistered = errors.New("observability: reliability component already registered")
)

// Exporter errors.
var (
	// ErrEndpointNotConfigured indicates TRACING_ENDPOINT is empty for an
	// exporter that needs it (tracing backend otlp or jaeger, metrics
	// exporter otlp). It is the exporters package's sentinel, so
	// errors.Is matches the errors NewManager returns.
	ErrEndpointNotConfigured = exporters.ErrEndpointNotConfigured
)

// Validation constants.
const (
	// MinSamplingRatio is the minimum valid sampling ratio.
	MinSamplingRatio = 0.0
	// MaxSamplingRatio is the maximum valid sampling ratio.
	MaxSamplingRatio = 1.0
)

// ValidTracingBackends lists valid TRACING_BACKEND values.
var ValidTracingBackends = []string{"otlp", "jaeger", "stdout", "none", ""}

// ValidMetricsExporters lists valid metrics exporter names.
var ValidMetricsExporters = []string{"otlp", "prometheus", "stdout", "none", ""}

// ValidLogLevels lists valid log level names.
var ValidLogLevels = []string{"debug", "info", "warn", "error", ""}

// RedactedFields lists field keys that are automatically redacted in logs.
// These fields may contain sensitive information like credentials or secrets.
var RedactedFields = []string{
	"input",
	"inputs",
	"password",
	"secret",
	"token",
	"api_key",
	"apiKey",
	"credential",
}
