package reliability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSelfHealer_RecoversOnFirstProbe(t *testing.T) {
	var recovered bool
	var mu sync.Mutex
	done := make(chan struct{})

	h := NewSelfHealer(
		SelfHealConfig{InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
		func(name string) {
			mu.Lock()
			recovered = true
			mu.Unlock()
		},
		func(ctx context.Context, name string) error { return nil },
	)
	h.config.OnRecovered = func(name string) { close(done) }

	h.Trigger(context.Background(), "svc")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for recovery")
	}

	mu.Lock()
	defer mu.Unlock()
	if !recovered {
		t.Fatal("recover callback was not invoked")
	}
}

func TestSelfHealer_EscalatesAfterMaxAttempts(t *testing.T) {
	done := make(chan struct{})

	h := NewSelfHealer(
		SelfHealConfig{
			InitialBackoff: time.Millisecond,
			MaxBackoff:     time.Millisecond,
			MaxAttempts:    3,
		},
		func(name string) {},
		func(ctx context.Context, name string) error { return context.DeadlineExceeded },
	)
	h.config.OnDegraded = func(name string) { close(done) }

	h.Trigger(context.Background(), "svc")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for escalation")
	}

	if !h.IsDegraded("svc") {
		t.Fatal("expected svc to be marked degraded")
	}
}

func TestSelfHealer_TriggerIsIdempotentWhileHealing(t *testing.T) {
	var calls int
	var mu sync.Mutex
	block := make(chan struct{})

	h := NewSelfHealer(
		SelfHealConfig{InitialBackoff: time.Millisecond},
		func(name string) {
			mu.Lock()
			calls++
			mu.Unlock()
			<-block
		},
		func(ctx context.Context, name string) error { return nil },
	)

	h.Trigger(context.Background(), "svc")
	time.Sleep(20 * time.Millisecond)
	h.Trigger(context.Background(), "svc") // should be a no-op; healing already in flight

	close(block)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("recover called %d times, want 1", calls)
	}
}
