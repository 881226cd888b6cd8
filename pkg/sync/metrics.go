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
	"sync"
	"time"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

// Metrics collects sync service metrics.
type Metrics interface {
	RecordCycleAttempt(trigger string)
	RecordCycleSuccess(result *models.SyncResult)
	RecordCycleFailure(stage string, err error, duration time.Duration)
	RecordCircuitBreakerStateChange(name string, oldState, newState CircuitBreakerState)
	GetMetrics() map[string]interface{}
}

// NoOpMetrics provides a no-op implementation of the Metrics interface
type NoOpMetrics struct{}

func (*NoOpMetrics) RecordCycleAttempt(string)                                                        {}
func (*NoOpMetrics) RecordCycleSuccess(*models.SyncResult)                                            {}
func (*NoOpMetrics) RecordCycleFailure(string, error, time.Duration)                                  {}
func (*NoOpMetrics) RecordCircuitBreakerStateChange(string, CircuitBreakerState, CircuitBreakerState) {}
func (*NoOpMetrics) GetMetrics() map[string]interface{}                                               { return map[string]interface{}{} }

// InMemoryMetrics provides an in-memory implementation of the Metrics interface
type InMemoryMetrics struct {
	mu     sync.RWMutex
	logger logger.Logger

	attempts  map[string]int
	failures  map[string]int
	successes int

	lastDuration         time.Duration
	lastDevices          int
	lastScans            int
	lastDocumentFailures int
	totalDocumentErrors  int
	lastError            string

	circuitBreakerStates map[string]string
	lastUpdated          time.Time
}

// NewInMemoryMetrics creates a new in-memory metrics collector
func NewInMemoryMetrics(log logger.Logger) *InMemoryMetrics {
	return &InMemoryMetrics{
		logger:               log,
		attempts:             make(map[string]int),
		failures:             make(map[string]int),
		circuitBreakerStates: make(map[string]string),
		lastUpdated:          time.Now(),
	}
}

func (m *InMemoryMetrics) RecordCycleAttempt(trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts[trigger]++
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordCycleSuccess(result *models.SyncResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.successes++
	m.lastDuration = result.Duration()
	m.lastDevices = result.DevicesProcessed
	m.lastScans = result.ScansProcessed
	m.lastDocumentFailures = result.FailureCount()
	m.totalDocumentErrors += result.FailureCount()
	m.lastError = ""
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) RecordCycleFailure(stage string, err error, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[stage]++
	m.lastDuration = duration
	m.lastUpdated = time.Now()

	if err != nil {
		m.lastError = err.Error()
	}

	m.logger.Error().
		Str("stage", stage).
		Err(err).
		Dur("duration", duration).
		Msg("Sync cycle failed")
}

func (m *InMemoryMetrics) RecordCircuitBreakerStateChange(name string, _, newState CircuitBreakerState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.circuitBreakerStates[name] = newState.String()
	m.lastUpdated = time.Now()
}

func (m *InMemoryMetrics) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	attempts := make(map[string]int, len(m.attempts))
	for k, v := range m.attempts {
		attempts[k] = v
	}

	failures := make(map[string]int, len(m.failures))
	for k, v := range m.failures {
		failures[k] = v
	}

	breakers := make(map[string]string, len(m.circuitBreakerStates))
	for k, v := range m.circuitBreakerStates {
		breakers[k] = v
	}

	return map[string]interface{}{
		"cycles": map[string]interface{}{
			"attempts":  attempts,
			"successes": m.successes,
			"failures":  failures,
		},
		"last_cycle": map[string]interface{}{
			"duration_ms":       m.lastDuration.Milliseconds(),
			"devices":           m.lastDevices,
			"scans":             m.lastScans,
			"document_failures": m.lastDocumentFailures,
			"error":             m.lastError,
		},
		"document_failures_total": m.totalDocumentErrors,
		"circuit_breakers":        breakers,
		"last_updated":            m.lastUpdated,
	}
}
