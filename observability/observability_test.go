package observability

import (
	"context"
	"errors"
	"testing"
)

func TestConfigValidate_Valid(t *testing.T) {
	cfg := Config{
		ServiceName: "reliacore",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Backend: "stdout", SamplingRatio: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "stdout"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestConfigValidate_MissingServiceName(t *testing.T) {
	cfg := Config{}

	err := cfg.Validate()
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("expected ErrMissingServiceName, got: %v", err)
	}
}

func TestConfigValidate_UnknownTracingBackend(t *testing.T) {
	cfg := Config{
		ServiceName: "reliacore",
		Tracing:     TracingConfig{Enabled: true, Backend: "unknown"},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidTracingBackend) {
		t.Errorf("expected ErrInvalidTracingBackend, got: %v", err)
	}
}

func TestConfigValidate_UnknownMetricsExporter(t *testing.T) {
	cfg := Config{
		ServiceName: "reliacore",
		Metrics:     MetricsConfig{Enabled: true, Exporter: "badvalue"},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidMetricsExporter) {
		t.Errorf("expected ErrInvalidMetricsExporter, got: %v", err)
	}
}

func TestConfigValidate_SamplingRatioOutOfRange(t *testing.T) {
	cfg := Config{
		ServiceName: "reliacore",
		Tracing:     TracingConfig{Enabled: true, Backend: "stdout", SamplingRatio: 1.5},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidSamplingRatio) {
		t.Errorf("expected ErrInvalidSamplingRatio, got: %v", err)
	}
}

func TestConfigValidate_UnknownLogLevel(t *testing.T) {
	cfg := Config{
		ServiceName: "reliacore",
		Logging:     LoggingConfig{Enabled: true, Level: "verbose"},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("expected ErrInvalidLogLevel, got: %v", err)
	}
}

func TestNewManager_DisabledSubsystemsUseNoops(t *testing.T) {
	mgr, err := NewManager(context.Background(), Config{ServiceName: "reliacore"})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer mgr.Shutdown(context.Background())

	if mgr.Tracer() == nil || mgr.Metrics() == nil || mgr.Logger() == nil {
		t.Fatal("Manager's components must never be nil, even when disabled")
	}
	if mgr.Registry() == nil {
		t.Fatal("Manager.Registry() must never be nil")
	}
}

func TestNewManager_InvalidConfigRejected(t *testing.T) {
	_, err := NewManager(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("expected ErrMissingServiceName, got: %v", err)
	}
}
