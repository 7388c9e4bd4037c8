package observability_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/highperapp/reliacore/observability"
	"github.com/highperapp/reliacore/reliability"
)

func ExampleNewManager() {
	cfg := observability.Config{
		ServiceName: "orders-api",
		Version:     "1.0.0",
		Tracing:     observability.TracingConfig{Enabled: true, Backend: "none"},
		Metrics:     observability.MetricsConfig{Enabled: false},
		Logging:     observability.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	mgr, err := observability.NewManager(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = mgr.Shutdown(ctx)
	}()

	fmt.Println("Manager created successfully")
	// Output:
	// Manager created successfully
}

func ExampleNewManager_validation() {
	cfg := observability.Config{ServiceName: ""}

	_, err := observability.NewManager(context.Background(), cfg)
	if errors.Is(err, observability.ErrMissingServiceName) {
		fmt.Println("Caught: missing service name")
	}
	// Output:
	// Caught: missing service name
}

func ExampleOperationMeta_SpanName() {
	meta := observability.OperationMeta{Name: "execute", Component: "orchestrator"}
	fmt.Println(meta.SpanName())

	meta2 := observability.OperationMeta{Name: "execute"}
	fmt.Println(meta2.SpanName())
	// Output:
	// orchestrator.execute
	// execute
}

func ExampleRegistry_viaOrchestrator() {
	mgr, err := observability.NewManager(context.Background(), observability.Config{ServiceName: "orders-api"})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = mgr.Shutdown(context.Background())
	}()

	orch := reliability.NewOrchestrator(reliability.OrchestratorConfig{})
	_ = orch.Execute(context.Background(), "checkout", func(context.Context) error { return nil })

	if err := mgr.Registry().Register(orch.View("checkout")); err != nil {
		fmt.Println("Error:", err)
		return
	}

	snap := mgr.Registry().Snapshot()
	fmt.Println("Status:", snap["checkout"].Status)
	// Output:
	// Status: healthy
}

func ExampleInstrumentation_Wrap() {
	ctx := context.Background()

	cfg := observability.Config{
		ServiceName: "orders-api",
		Tracing:     observability.TracingConfig{Enabled: true, Backend: "none"},
		Metrics:     observability.MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     observability.LoggingConfig{Enabled: false},
	}
	mgr, _ := observability.NewManager(ctx, cfg)
	defer func() {
		_ = mgr.Shutdown(ctx)
	}()

	instr := observability.FromManager(mgr)

	execFn := func(ctx context.Context, op observability.OperationMeta, input any) (any, error) {
		return map[string]string{"status": "success"}, nil
	}

	wrapped := instr.Wrap(execFn)

	result, err := wrapped(ctx, observability.OperationMeta{Name: "process_order", Component: "orders"}, nil)
	if err != nil {
		fmt.Println("Error:", err)
	} else {
		fmt.Printf("Result: %v\n", result)
	}
	// Output:
	// Result: map[status:success]
}
