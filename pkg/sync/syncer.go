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

// Package sync walks the report directory and upserts the extracted records.
package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
	"github.com/carverauto/nmapping/pkg/report"
)

const defaultWorkers = 4

// Syncer processes every document of a source directory into the Store.
type Syncer struct {
	store   Store
	builder *report.DeviceBuilder
	workers int
	clock   Clock
	logger  logger.Logger
}

// SyncerOption customizes a Syncer.
type SyncerOption func(*Syncer)

// WithWorkers bounds how many documents are processed concurrently.
func WithWorkers(n int) SyncerOption {
	return func(s *Syncer) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithSyncerClock overrides the clock used for run timestamps.
func WithSyncerClock(c Clock) SyncerOption {
	return func(s *Syncer) {
		s.clock = c
	}
}

// NewSyncer returns a Syncer writing to store.
func NewSyncer(store Store, builder *report.DeviceBuilder, log logger.Logger, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:   store,
		builder: builder,
		workers: defaultWorkers,
		clock:   realClock{},
		logger:  log,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.builder == nil {
		s.builder = report.NewDeviceBuilder(nil, log)
	}

	return s
}

// SyncAll processes every device and scan-summary document in dir. One document failing never
// stops the others; failures are collected in the result. An unreadable directory fails the
// whole run. When ctx is cancelled, documents not yet started are recorded as aborted and the
// partial result is returned with ctx.Err().
func (s *Syncer) SyncAll(ctx context.Context, dir string) (*models.SyncResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrSourceDir, dir, err)
	}

	result := &models.SyncResult{
		RunID:     uuid.NewString(),
		SourceDir: dir,
		Failures:  []models.SyncFailure{},
		StartedAt: s.clock.Now(),
	}

	docs := make([]report.Document, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		doc := report.ClassifyFilename(entry.Name())
		if doc.Kind == report.KindIgnored {
			result.Ignored++
			continue
		}

		docs = append(docs, doc)
	}

	s.logger.Debug().
		Str("run_id", result.RunID).
		Str("source_dir", dir).
		Int("documents", len(docs)).
		Int("ignored", result.Ignored).
		Msg("Starting sync run")

	results := make([]report.Result, len(docs))

	var g errgroup.Group

	g.SetLimit(s.workers)

	for i, doc := range docs {
		if ctx.Err() != nil {
			results[i] = report.Failed(doc, models.FailureAborted, ctx.Err())
			continue
		}

		g.Go(func() error {
			results[i] = s.ProcessDocument(ctx, dir, doc)
			return nil
		})
	}

	_ = g.Wait()

	for _, res := range results {
		switch {
		case res.Failure != nil:
			result.Failures = append(result.Failures, res.Failure.SyncFailure())

			s.logger.Warn().
				Str("run_id", result.RunID).
				Str("file", res.Failure.File).
				Str("kind", string(res.Failure.Kind)).
				Err(res.Failure.Err).
				Msg("Document failed")
		case res.Device != nil:
			result.DevicesProcessed++
		case res.Scan != nil:
			result.ScansProcessed++
		}
	}

	result.FinishedAt = s.clock.Now()

	s.logger.Info().
		Str("run_id", result.RunID).
		Int("devices", result.DevicesProcessed).
		Int("scans", result.ScansProcessed).
		Int("failures", result.FailureCount()).
		Dur("duration", result.Duration()).
		Msg("Sync run finished")

	if err := ctx.Err(); err != nil {
		return result, err
	}

	return result, nil
}

// ProcessDocument reads, parses and stores one classified document. It never panics.
func (s *Syncer) ProcessDocument(ctx context.Context, dir string, doc report.Document) (res report.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = report.Failed(doc, models.FailurePanic, fmt.Errorf("recovered: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return report.Failed(doc, models.FailureAborted, err)
	}

	data, err := os.ReadFile(filepath.Join(dir, doc.Name))
	if err != nil {
		return report.Failed(doc, models.FailureRead, err)
	}

	res = report.Parse(s.builder, doc, string(data))
	if res.Failure != nil {
		return res
	}

	if res.Device != nil {
		err = s.store.UpsertDevice(ctx, res.Device)
	} else {
		err = s.store.UpsertScanSummary(ctx, res.Scan)
	}

	if err != nil {
		return report.Failed(doc, models.FailureStore, err)
	}

	return res
}

// ProcessFile reprocesses a single named file of dir.
func (s *Syncer) ProcessFile(ctx context.Context, dir, name string) report.Result {
	doc := report.ClassifyFilename(filepath.Base(name))
	if doc.Kind == report.KindIgnored {
		return report.Failed(doc, models.FailureParse, ErrNotDocument)
	}

	return s.ProcessDocument(ctx, dir, doc)
}
