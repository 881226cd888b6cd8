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

package models

import "time"

// FailureKind tags which stage of document processing failed.
type FailureKind string

const (
	FailureRead    FailureKind = "read"
	FailureParse   FailureKind = "parse"
	FailureStore   FailureKind = "store"
	FailurePanic   FailureKind = "panic"
	FailureAborted FailureKind = "aborted"
)

// SyncFailure records one document that could not be processed.
type SyncFailure struct {
	File  string      `json:"file"`
	Kind  FailureKind `json:"kind"`
	Error string      `json:"error"`
}

// SyncResult is the aggregate outcome of one pass over the source directory.
type SyncResult struct {
	RunID            string        `json:"run_id"`
	SourceDir        string        `json:"source_dir"`
	DevicesProcessed int           `json:"devices_processed"`
	ScansProcessed   int           `json:"scans_processed"`
	Ignored          int           `json:"ignored"`
	Failures         []SyncFailure `json:"failures"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       time.Time     `json:"finished_at"`
}

// FailureCount returns the number of documents that failed.
func (r *SyncResult) FailureCount() int {
	if r == nil {
		return 0
	}

	return len(r.Failures)
}

// Duration returns how long the run took.
func (r *SyncResult) Duration() time.Duration {
	if r == nil || r.FinishedAt.IsZero() {
		return 0
	}

	return r.FinishedAt.Sub(r.StartedAt)
}
