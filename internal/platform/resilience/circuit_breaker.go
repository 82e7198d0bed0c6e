package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState int

const (
	CircuitStateClosed CircuitState = iota
	CircuitStateOpen
	CircuitStateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitStateOpen:
		return "open"
	case CircuitStateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// CircuitBreaker guards an outbound dependency. The zero of *CircuitBreaker
// (nil) is permanently closed.
//
// Each transition bumps a generation counter so results of calls admitted
// under an earlier state are ignored.
type CircuitBreaker struct {
	threshold int
	cooldown  time.Duration
	trials    int
	clock     clockwork.Clock

	mu         sync.Mutex
	state      CircuitState
	generation uint64
	failures   int
	inFlight   int
	passed     int
	reopenAt   time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int, clock clockwork.Clock) *CircuitBreaker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cfg := CircuitBreakerConfig{
		FailureThreshold: failureThreshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}.withDefaults()

	return &CircuitBreaker{
		threshold: cfg.FailureThreshold,
		cooldown:  cfg.OpenTimeout,
		trials:    cfg.HalfOpenMaxReq,
		clock:     clock,
	}
}

// Do runs fn if the breaker admits the call and records its outcome.
func (b *CircuitBreaker) Do(fn func() error) error {
	gen, err := b.admit()
	if err != nil {
		return err
	}
	err = fn()
	b.settle(gen, err == nil)
	return err
}

func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance()
	return b.state
}

func (b *CircuitBreaker) admit() (uint64, error) {
	if b == nil {
		return 0, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	switch b.state {
	case CircuitStateOpen:
		return 0, ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.inFlight >= b.trials {
			return 0, ErrCircuitOpen
		}
	}
	b.inFlight++
	return b.generation, nil
}

func (b *CircuitBreaker) settle(gen uint64, ok bool) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	if gen != b.generation {
		return
	}
	b.inFlight--

	switch {
	case ok && b.state == CircuitStateHalfOpen:
		b.passed++
		if b.passed >= b.trials {
			b.enter(CircuitStateClosed)
		}
	case ok:
		b.failures = 0
	case b.state == CircuitStateHalfOpen:
		b.enter(CircuitStateOpen)
	default:
		b.failures++
		if b.failures >= b.threshold {
			b.enter(CircuitStateOpen)
		}
	}
}

// advance moves an open breaker to half-open once its cooldown has elapsed.
func (b *CircuitBreaker) advance() {
	if b.state == CircuitStateOpen && !b.clock.Now().Before(b.reopenAt) {
		b.enter(CircuitStateHalfOpen)
	}
}

func (b *CircuitBreaker) enter(state CircuitState) {
	b.state = state
	b.generation++
	b.failures, b.inFlight, b.passed = 0, 0, 0
	if state == CircuitStateOpen {
		b.reopenAt = b.clock.Now().Add(b.cooldown)
	}
}
