package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Closed → Open → Half-Open breaker guarding outbound calls the worker pool
// makes (SMTP). While open, jobs fail fast and land in the dead-letter list
// instead of blocking a worker on a dead relay.

// CBState represents the current circuit breaker state.
type CBState int

const (
	CBClosed   CBState = iota // requests flow
	CBOpen                    // fast-fail
	CBHalfOpen                // probing
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when Execute is called while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds tunable parameters.
type CircuitBreakerConfig struct {
	Name             string        // used in logs
	FailureThreshold int           // consecutive failures to trip open (default: 5)
	SuccessThreshold int           // consecutive half-open successes to close (default: 2)
	OpenTimeout      time.Duration // time spent open before probing (default: 60s)
}

// DefaultCBConfig returns the defaults used for the SMTP breaker.
func DefaultCBConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker is safe for concurrent use.
type CircuitBreaker struct {
	mu           sync.Mutex
	cfg          CircuitBreakerConfig
	state        CBState
	failures     int
	successes    int
	openedAt     time.Time
	halfOpenBusy bool
	now          func() time.Time
}

// NewCircuitBreaker creates a breaker in Closed state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed, now: time.Now}
}

// State returns the current state, promoting Open to Half-Open once the open
// timeout has elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.promote()
	return cb.state
}

// Execute runs fn through the breaker. In Half-Open only one probe runs at a
// time; concurrent callers get ErrCircuitOpen.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	cb.promote()
	switch {
	case cb.state == CBOpen:
		cb.mu.Unlock()
		return ErrCircuitOpen
	case cb.state == CBHalfOpen && cb.halfOpenBusy:
		cb.mu.Unlock()
		return ErrCircuitOpen
	case cb.state == CBHalfOpen:
		cb.halfOpenBusy = true
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.halfOpenBusy = false
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

// promote must be called under lock.
func (cb *CircuitBreaker) promote() {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.transition(CBHalfOpen)
	}
}

// onFailure must be called under lock.
func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	switch cb.state {
	case CBClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.transition(CBOpen)
		}
	case CBHalfOpen:
		cb.transition(CBOpen)
	}
}

// onSuccess must be called under lock.
func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.transition(CBClosed)
		}
	}
}

func (cb *CircuitBreaker) transition(to CBState) {
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	if to == CBOpen {
		cb.openedAt = cb.now()
	}
	log.Warn().Str("breaker", cb.cfg.Name).Str("from", from.String()).Str("to", to.String()).
		Msg("circuit_breaker: state change")
}
