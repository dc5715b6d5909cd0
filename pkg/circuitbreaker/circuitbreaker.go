package circuitbreaker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tair/affiliate-reviews/pkg/logger"
)

// ErrOpen is returned without calling through while the breaker is open
var ErrOpen = errors.New("circuit breaker is open")

// State represents the state of a circuit breaker
type State string

const (
	StateClosed   State = "closed"    // Normal operation
	StateOpen     State = "open"      // Blocking calls
	StateHalfOpen State = "half-open" // Probing whether the backend recovered
)

// Breaker implements the circuit breaker pattern
type Breaker struct {
	name            string
	maxFailures     int           // Consecutive failures before opening
	openTimeout     time.Duration // Time to wait before probing again
	halfOpenSuccess int           // Successes needed in half-open to close
	state           State
	failures        int
	successCount    int
	lastFailureTime time.Time
	lastStateChange time.Time
	now             func() time.Time
	mu              sync.Mutex
}

// Option customizes a Breaker
type Option func(*Breaker)

// WithClock replaces time.Now, used by tests
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) { b.now = now }
}

// WithHalfOpenSuccesses sets how many probes must pass before closing
func WithHalfOpenSuccesses(n int) Option {
	return func(b *Breaker) { b.halfOpenSuccess = n }
}

// New creates a new circuit breaker
func New(name string, maxFailures int, openTimeout time.Duration, opts ...Option) *Breaker {
	b := &Breaker{
		name:            name,
		maxFailures:     maxFailures,
		openTimeout:     openTimeout,
		halfOpenSuccess: 3,
		state:           StateClosed,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.lastStateChange = b.now()
	return b
}

// Call executes fn with circuit breaker protection.
// Errors for which countable returns false (caller mistakes such as
// bad credentials) do not trip the breaker.
func (b *Breaker) Call(fn func() error, countable func(error) bool) error {
	b.mu.Lock()
	if b.state == StateOpen && b.now().Sub(b.lastStateChange) > b.openTimeout {
		b.transition(StateHalfOpen)
		b.successCount = 0
		logger.Logger.Info().
			Str("circuit", b.name).
			Msg("Circuit breaker transitioning to half-open")
	}
	currentState := b.state
	b.mu.Unlock()

	if currentState == StateOpen {
		return fmt.Errorf("%s: %w", b.name, ErrOpen)
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil && (countable == nil || countable(err)) {
		b.onFailure()
	} else {
		b.onSuccess()
	}

	return err
}

// onFailure records a failure
func (b *Breaker) onFailure() {
	b.failures++
	b.lastFailureTime = b.now()

	if b.state == StateHalfOpen {
		// Any failure while probing reopens the circuit
		b.transition(StateOpen)
		logger.Logger.Warn().
			Str("circuit", b.name).
			Msg("Circuit breaker reopened after half-open failure")
	} else if b.failures >= b.maxFailures {
		b.transition(StateOpen)
		logger.Logger.Error().
			Str("circuit", b.name).
			Int("failures", b.failures).
			Int("threshold", b.maxFailures).
			Msg("Circuit breaker opened")
	}
}

// onSuccess records a success
func (b *Breaker) onSuccess() {
	switch b.state {
	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.halfOpenSuccess {
			b.transition(StateClosed)
			b.failures = 0
			b.successCount = 0
			logger.Logger.Info().
				Str("circuit", b.name).
				Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		b.failures = 0
	}
}

func (b *Breaker) transition(to State) {
	b.state = to
	b.lastStateChange = b.now()
}

// State returns the current state
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns circuit breaker statistics
func (b *Breaker) Stats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"name":              b.name,
		"state":             b.state,
		"failures":          b.failures,
		"max_failures":      b.maxFailures,
		"last_failure_time": b.lastFailureTime,
		"last_state_change": b.lastStateChange,
		"time_since_change": b.now().Sub(b.lastStateChange).Seconds(),
	}
}
