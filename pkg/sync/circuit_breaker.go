/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

// CircuitBreakerState represents the current state of the circuit breaker
type CircuitBreakerState int

const (
	// StateClosed - Circuit is closed, requests are allowed
	StateClosed CircuitBreakerState = iota
	// StateOpen - Circuit is open, requests are rejected
	StateOpen
	// StateHalfOpen - Circuit is testing if the service has recovered
	StateHalfOpen
)

// CircuitBreakerConfig holds configuration for the circuit breaker
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of failures before opening the circuit
	FailureThreshold int
	// SuccessThreshold is the number of successes needed to close the circuit from half-open
	SuccessThreshold int
	// Timeout is how long to wait before transitioning from open to half-open
	Timeout time.Duration
	// ResetTimeout is how long to wait before resetting failure counts in closed state
	ResetTimeout time.Duration
}

// DefaultCircuitBreakerConfig suits a publisher called once per sync cycle.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Timeout:          15 * time.Minute,
		ResetTimeout:     time.Hour,
	}
}

// CircuitBreaker stops calling a failing dependency until Timeout has passed.
type CircuitBreaker struct {
	config        CircuitBreakerConfig
	state         CircuitBreakerState
	failureCount  int
	successCount  int
	lastFailTime  time.Time
	lastResetTime time.Time
	mu            sync.RWMutex
	logger        logger.Logger
	name          string
	now           func() time.Time
	onChange      func(name string, oldState, newState CircuitBreakerState)
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration
func NewCircuitBreaker(name string, config CircuitBreakerConfig, log logger.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		config:        config,
		state:         StateClosed,
		lastResetTime: time.Now(),
		logger:        log,
		name:          name,
		now:           time.Now,
	}
}

// Execute executes a function call through the circuit breaker
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !cb.allowRequest() {
		return fmt.Errorf("%w: %s", errCircuitOpen, cb.name)
	}

	err := fn()
	cb.recordResult(err)

	return err
}

// allowRequest checks if a request should be allowed based on circuit breaker state
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()

	switch cb.state {
	case StateClosed:
		// Reset failure count if enough time has passed
		if now.Sub(cb.lastResetTime) >= cb.config.ResetTimeout {
			cb.failureCount = 0
			cb.lastResetTime = now
		}

		return true

	case StateOpen:
		if now.Sub(cb.lastFailTime) >= cb.config.Timeout {
			cb.setState(StateHalfOpen)
			cb.successCount = 0

			return true
		}

		return false

	case StateHalfOpen:
		return true

	default:
		return false
	}
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailTime = cb.now()

	switch cb.state {
	case StateClosed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
		}

	case StateHalfOpen:
		cb.setState(StateOpen)

	case StateOpen:
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
			cb.failureCount = 0
			cb.lastResetTime = cb.now()
		}

	case StateClosed:
		cb.failureCount = 0
		cb.lastResetTime = cb.now()

	case StateOpen:
	}
}

// setState must be called with cb.mu held.
func (cb *CircuitBreaker) setState(next CircuitBreakerState) {
	prev := cb.state
	cb.state = next

	cb.logger.Info().
		Str("circuit_breaker", cb.name).
		Str("old_state", prev.String()).
		Str("new_state", next.String()).
		Int("failure_count", cb.failureCount).
		Msg("Circuit breaker state changed")

	if cb.onChange != nil {
		cb.onChange(cb.name, prev, next)
	}
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.state
}

// GetMetrics returns current metrics for monitoring
func (cb *CircuitBreaker) GetMetrics() map[string]interface{} {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return map[string]interface{}{
		"name":          cb.name,
		"state":         cb.state.String(),
		"failure_count": cb.failureCount,
		"success_count": cb.successCount,
		"last_failure":  cb.lastFailTime,
		"last_reset":    cb.lastResetTime,
	}
}

// String returns a string representation of the circuit breaker state
func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerPublisher wraps a Publisher so an unreachable broker is not retried every cycle.
type CircuitBreakerPublisher struct {
	next           Publisher
	circuitBreaker *CircuitBreaker
}

// NewCircuitBreakerPublisher wraps next. State changes are reported to metrics when it is non-nil.
func NewCircuitBreakerPublisher(
	next Publisher, name string, config CircuitBreakerConfig, metrics Metrics, log logger.Logger,
) *CircuitBreakerPublisher {
	cb := NewCircuitBreaker(name, config, log)
	if metrics != nil {
		cb.onChange = metrics.RecordCircuitBreakerStateChange
	}

	return &CircuitBreakerPublisher{next: next, circuitBreaker: cb}
}

// PublishSyncCompleted implements Publisher.
func (p *CircuitBreakerPublisher) PublishSyncCompleted(ctx context.Context, result *models.SyncResult) error {
	return p.circuitBreaker.Execute(ctx, func() error {
		return p.next.PublishSyncCompleted(ctx, result)
	})
}
