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
	"github.com/carverauto/nmapping/pkg/report"
)

// Cycle triggers, recorded in metrics and logs.
const (
	TriggerStartup  = "startup"
	TriggerInterval = "interval"
	TriggerWatch    = "watch"
	TriggerAPI      = "api"
)

// Service runs sync cycles in the background: once at start, then on every tick or trigger.
// Cycles never overlap.
type Service struct {
	syncer    *Syncer
	sourceDir string
	interval  time.Duration
	puller    Puller
	publisher Publisher
	listeners []Listener
	metrics   Metrics
	clock     Clock
	logger    logger.Logger

	cycleMu sync.Mutex
	mu      sync.RWMutex
	last    *models.SyncResult
	lastErr error
	trigger chan string
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithPuller makes every cycle pull the source first.
func WithPuller(p Puller) ServiceOption {
	return func(s *Service) {
		s.puller = p
	}
}

// WithPublisher publishes every completed cycle.
func WithPublisher(p Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithListener registers an in-process listener.
func WithListener(l Listener) ServiceOption {
	return func(s *Service) {
		s.listeners = append(s.listeners, l)
	}
}

// WithMetrics replaces the default no-op metrics.
func WithMetrics(m Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(c Clock) ServiceOption {
	return func(s *Service) {
		s.clock = c
	}
}

// NewService creates a service syncing sourceDir every interval.
func NewService(syncer *Syncer, sourceDir string, interval time.Duration, log logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		syncer:    syncer,
		sourceDir: sourceDir,
		interval:  interval,
		metrics:   &NoOpMetrics{},
		clock:     realClock{},
		logger:    log,
		trigger:   make(chan string, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start blocks running cycles until ctx is done.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info().
		Str("source_dir", s.sourceDir).
		Dur("interval", s.interval).
		Bool("pull", s.puller != nil).
		Msg("Starting sync service")

	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	s.runLogged(ctx, TriggerStartup)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Sync service stopped")
			return ctx.Err()
		case <-ticker.Chan():
			s.runLogged(ctx, TriggerInterval)
		case reason := <-s.trigger:
			s.runLogged(ctx, reason)
		}
	}
}

// Trigger requests a cycle as soon as the current one ends. Requests made while one is
// already pending are merged.
func (s *Service) Trigger(reason string) {
	select {
	case s.trigger <- reason:
	default:
	}
}

func (s *Service) runLogged(ctx context.Context, trigger string) {
	if _, err := s.RunOnce(ctx, trigger); err != nil && ctx.Err() == nil {
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("Sync cycle failed")
	}
}

// RunOnce pulls the source, syncs it and announces the result. A failed pull skips the cycle.
func (s *Service) RunOnce(ctx context.Context, trigger string) (*models.SyncResult, error) {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	s.metrics.RecordCycleAttempt(trigger)
	start := s.clock.Now()

	if s.puller != nil {
		if err := s.puller.Pull(ctx); err != nil {
			err = fmt.Errorf("%w: %w", ErrPullFailed, err)
			s.metrics.RecordCycleFailure("pull", err, s.clock.Now().Sub(start))
			s.setLast(nil, err)

			return nil, err
		}
	}

	result, err := s.syncer.SyncAll(ctx, s.sourceDir)
	if err != nil {
		s.metrics.RecordCycleFailure("sync", err, s.clock.Now().Sub(start))
		s.setLast(result, err)

		return result, err
	}

	s.metrics.RecordCycleSuccess(result)
	s.setLast(result, nil)

	if s.publisher != nil {
		if err := s.publisher.PublishSyncCompleted(ctx, result); err != nil {
			s.logger.Warn().Err(err).Str("run_id", result.RunID).Msg("Failed to publish sync event")
		}
	}

	s.notify(ctx, result)

	return result, nil
}

// Reprocess syncs a single document of the source directory, serialized with full cycles.
func (s *Service) Reprocess(ctx context.Context, name string) report.Result {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	return s.syncer.ProcessFile(ctx, s.sourceDir, name)
}

// LastResult returns the outcome of the most recent cycle.
func (s *Service) LastResult() (*models.SyncResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.last, s.lastErr
}

// Metrics exposes the collected cycle metrics.
func (s *Service) Metrics() map[string]interface{} {
	return s.metrics.GetMetrics()
}

func (s *Service) setLast(result *models.SyncResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result != nil {
		s.last = result
	}

	s.lastErr = err
}

// AddListener registers l for cycles that complete after the call.
func (s *Service) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, l)
}

func (s *Service) notify(ctx context.Context, result *models.SyncResult) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.SyncCompleted(ctx, result)
	}
}
