package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

var errDown = errors.New("dependency down")

func fail() error    { return errDown }
func succeed() error { return nil }

func TestCircuitBreaker_TripsAndRecovers(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 11, 12, 0, 0, 0, time.UTC))
	b := NewCircuitBreaker(2, 5*time.Second, 1, clock)

	if err := b.Do(fail); !errors.Is(err, errDown) {
		t.Fatalf("expected the call's own error, got %v", err)
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after one failure, got %s", got)
	}

	_ = b.Do(fail)
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("expected open after threshold, got %s", got)
	}

	called := false
	err := b.Do(func() error { called = true; return nil })
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("open breaker must reject without calling, err=%v called=%v", err, called)
	}

	clock.Advance(5 * time.Second)
	if got := b.State(); got != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after cooldown, got %s", got)
	}
	if err := b.Do(succeed); err != nil {
		t.Fatalf("trial should pass, got %v", err)
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("expected closed after successful trial, got %s", got)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewCircuitBreaker(2, time.Second, 1, clockwork.NewFakeClock())

	_ = b.Do(fail)
	_ = b.Do(succeed)
	_ = b.Do(fail)
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("failures were not consecutive, expected closed, got %s", got)
	}
}

func TestCircuitBreaker_HalfOpenLimitsTrialsAndReopens(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewCircuitBreaker(1, time.Second, 1, clock)

	_ = b.Do(fail)
	clock.Advance(time.Second)

	err := b.Do(func() error {
		if err := b.Do(succeed); !errors.Is(err, ErrCircuitOpen) {
			t.Errorf("second concurrent trial should be rejected, got %v", err)
		}
		return errDown
	})
	if !errors.Is(err, errDown) {
		t.Fatalf("expected trial error, got %v", err)
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("failed trial should reopen, got %s", got)
	}
}

func TestCircuitBreaker_StaleResultIgnored(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := NewCircuitBreaker(1, time.Second, 1, clock)

	// The slow call was admitted while closed; by the time it succeeds the
	// breaker has tripped, so its success must not close it.
	_ = b.Do(func() error {
		_ = b.Do(fail)
		return nil
	})
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("expected open, got %s", got)
	}
}

func TestCircuitBreaker_NilIsAlwaysClosed(t *testing.T) {
	var b *CircuitBreaker
	if err := b.Do(fail); !errors.Is(err, errDown) {
		t.Fatalf("nil breaker must run the call, got %v", err)
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("nil breaker must report closed, got %s", got)
	}
}

func TestNewCircuitBreakerFromConfig(t *testing.T) {
	if b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{}, nil); b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}

	b := NewCircuitBreakerFromConfig(CircuitBreakerConfig{Enabled: true}, clockwork.NewFakeClock())
	if b == nil {
		t.Fatalf("expected breaker when enabled")
	}
	if b.threshold != 5 || b.trials != 2 || b.cooldown != 15*time.Second {
		t.Fatalf("expected defaults, got threshold=%d trials=%d cooldown=%s", b.threshold, b.trials, b.cooldown)
	}
}
