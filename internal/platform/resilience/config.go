package resilience

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type CircuitBreakerConfig struct {
	Enabled bool
	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold int
	// OpenTimeout is how long the breaker rejects calls before probing.
	OpenTimeout time.Duration
	// HalfOpenMaxReq trial requests must succeed before the breaker closes again.
	HalfOpenMaxReq int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{Enabled: true, FailureThreshold: 5, OpenTimeout: 15 * time.Second, HalfOpenMaxReq: 2}
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	d := DefaultCircuitBreakerConfig()
	c.FailureThreshold = atLeastOne(c.FailureThreshold, d.FailureThreshold)
	c.HalfOpenMaxReq = atLeastOne(c.HalfOpenMaxReq, d.HalfOpenMaxReq)
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = d.OpenTimeout
	}
	return c
}

func atLeastOne(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}

// NewCircuitBreakerFromConfig returns nil, an always-closed breaker, when
// cfg is disabled.
func NewCircuitBreakerFromConfig(cfg CircuitBreakerConfig, clock clockwork.Clock) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	cfg = cfg.withDefaults()
	return NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq, clock)
}
