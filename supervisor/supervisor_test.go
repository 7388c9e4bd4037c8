package supervisor

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/highperapp/reliacore/config"
	"github.com/highperapp/reliacore/worker"
)

// TestMain lets this test binary double as the worker process a
// Supervisor spawns, following the net/os/exec "helper process"
// self-exec idiom: a spawned child re-execs the test binary with an
// environment sentinel and TestMain intercepts before any real test
// runs.
func TestMain(m *testing.M) {
	if os.Getenv("RELIACORE_HELPER_PROCESS") == "1" {
		runHelperProcess()
		return
	}
	os.Exit(m.Run())
}

func runHelperProcess() {
	fds := strings.Split(os.Getenv(worker.ListenerFDEnv), ",")
	numListeners := 0
	if fds[0] != "" {
		numListeners = len(fds)
	}
	readyFD := 3 + numListeners

	if os.Getenv("RELIACORE_HELPER_CRASH") == "1" {
		os.Exit(1)
	}

	f := os.NewFile(uintptr(readyFD), "ready")
	_, _ = f.Write([]byte("ready\n"))
	_ = f.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	<-sigCh
	os.Exit(0)
}

func helperConfig(t *testing.T, extraEnv ...string) Config {
	t.Helper()
	return Config{
		WorkerCount:       1,
		BinaryPath:        os.Args[0],
		Env:               append([]string{"RELIACORE_HELPER_PROCESS=1"}, extraEnv...),
		RestartBackoff:    time.Millisecond,
		RestartBackoffCap: 5 * time.Millisecond,
		ReadyTimeout:      2 * time.Second,
		GraceDeadline:     2 * time.Second,
	}
}

func TestSupervisor_RunAndGracefulStop(t *testing.T) {
	sup := NewSupervisor(helperConfig(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sup.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	stats := sup.Stats()
	if stats.Running != 1 {
		t.Fatalf("Running = %d, want 1 (stats: %+v)", stats.Running, stats)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after GracefulStop")
	}
}

func TestSupervisor_CrashLoopAbort(t *testing.T) {
	cfg := helperConfig(t, "RELIACORE_HELPER_CRASH=1")
	cfg.CrashLoopThreshold = 3
	cfg.CrashLoopWindow = time.Minute

	var aborted bool
	cfg.OnCrashLoopAbort = func() { aborted = true }

	sup := NewSupervisor(cfg)

	err := sup.Run(context.Background())
	if !errors.Is(err, ErrCrashLoopAbort) {
		t.Fatalf("Run() error = %v, want ErrCrashLoopAbort", err)
	}
	if !aborted {
		t.Error("OnCrashLoopAbort was never invoked")
	}
}

func TestSupervisor_DeployUnknownStrategy(t *testing.T) {
	sup := NewSupervisor(Config{WorkerCount: 0, DeploymentStrategy: "bogus"})
	if err := sup.Deploy(context.Background()); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Deploy() error = %v, want ErrUnknownStrategy", err)
	}
}

func TestRestartBackoff_DoublesUpToCapital(t *testing.T) {
	cases := []struct {
		restarts int
		want     time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{10, 10 * time.Second}, // capped
	}
	for _, tc := range cases {
		got := restartBackoff(tc.restarts, 100*time.Millisecond, 10*time.Second)
		if got != tc.want {
			t.Errorf("restartBackoff(%d) = %v, want %v", tc.restarts, got, tc.want)
		}
	}
}

func TestPruneRestarts_DropsStaleEntries(t *testing.T) {
	now := time.Now()
	log := []time.Time{now.Add(-2 * time.Minute), now.Add(-30 * time.Second), now}
	kept := pruneRestarts(log, now.Add(-time.Minute))
	if len(kept) != 2 {
		t.Errorf("len(kept) = %d, want 2", len(kept))
	}
}

func TestFileOf_RejectsNonFilerListener(t *testing.T) {
	_, err := fileOf(fakeListener{})
	if err == nil {
		t.Error("expected an error for a listener without a File() method")
	}
}

type fakeListener struct{}

func (fakeListener) Accept() (net.Conn, error) { return nil, errors.New("unused") }
func (fakeListener) Close() error              { return nil }
func (fakeListener) Addr() net.Addr            { return fakeAddr{} }

type fakeAddr struct{}

func (fakeAddr) Network() string { return "fake" }
func (fakeAddr) String() string  { return "fake" }

func TestSupervisor_StatsReflectsDeploymentStrategy(t *testing.T) {
	sup := NewSupervisor(Config{DeploymentStrategy: config.StrategyRolling})
	stats := sup.Stats()
	if stats.DeploymentStrategy != config.StrategyRolling {
		t.Errorf("DeploymentStrategy = %q, want rolling", stats.DeploymentStrategy)
	}
	if !stats.ZeroDowntimeEnabled {
		t.Error("expected ZeroDowntimeEnabled to be true when a strategy is configured")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.RestartBackoff != DefaultRestartBackoff {
		t.Errorf("RestartBackoff = %v, want %v", cfg.RestartBackoff, DefaultRestartBackoff)
	}
	if cfg.CrashLoopThreshold != DefaultCrashLoopThreshold {
		t.Errorf("CrashLoopThreshold = %d, want %d", cfg.CrashLoopThreshold, DefaultCrashLoopThreshold)
	}
	if cfg.BinaryPath != os.Args[0] {
		t.Errorf("BinaryPath = %q, want os.Args[0]", cfg.BinaryPath)
	}
}
