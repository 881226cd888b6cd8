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

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	// Error message
	Message string `json:"message" example:"Device not found"`
	// HTTP status code
	Status int `json:"status" example:"404"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Project   string                 `json:"project"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Database  string                 `json:"database"`
	LastSync  *SyncResult            `json:"last_sync,omitempty"`
	SyncError string                 `json:"sync_error,omitempty"`
	Sync      map[string]interface{} `json:"sync,omitempty"`
}

// RefreshResponse reports the outcome of an on-demand sync.
type RefreshResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Result  *SyncResult `json:"result,omitempty"`
}

// NotesRequest replaces the notes of a device.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// ReprocessResponse is the outcome of re-reading one device document.
type ReprocessResponse struct {
	Success bool          `json:"success"`
	Device  *DeviceRecord `json:"device,omitempty"`
	Failure *SyncFailure  `json:"failure,omitempty"`
}
