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

import (
	"time"
)

// CloudEvent represents a CloudEvents v1.0 compliant event.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// SyncCompletedEventData is the payload of a sync-completed event.
type SyncCompletedEventData struct {
	RunID            string    `json:"run_id"`
	SourceDir        string    `json:"source_dir"`
	DevicesProcessed int       `json:"devices_processed"`
	ScansProcessed   int       `json:"scans_processed"`
	Failures         int       `json:"failures"`
	DurationMs       int64     `json:"duration_ms"`
	Timestamp        time.Time `json:"timestamp"`
}

// NewSyncCompletedEventData summarizes a sync result for publishing.
func NewSyncCompletedEventData(result *SyncResult) SyncCompletedEventData {
	return SyncCompletedEventData{
		RunID:            result.RunID,
		SourceDir:        result.SourceDir,
		DevicesProcessed: result.DevicesProcessed,
		ScansProcessed:   result.ScansProcessed,
		Failures:         result.FailureCount(),
		DurationMs:       result.Duration().Milliseconds(),
		Timestamp:        result.FinishedAt,
	}
}
