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

// Package db pkg/db/interfaces.go
package db

import (
	"context"

	"github.com/carverauto/nmapping/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/carverauto/nmapping/pkg/db Service

// Service represents all dashboard storage operations. Implementations are safe for
// concurrent use.
type Service interface {
	Close() error
	Ping(ctx context.Context) error

	// Sync writes.

	// UpsertDevice inserts or replaces the document-derived fields of a device.
	// Notes and CreatedAt of an existing row are preserved.
	UpsertDevice(ctx context.Context, device *models.DeviceRecord) error
	// UpsertScanSummary inserts or replaces the summary for (ScanType, ScanDate).
	UpsertScanSummary(ctx context.Context, scan *models.ScanSummaryRecord) error

	// Dashboard reads.

	// ListDevices returns every device ordered by last_seen descending, then ip.
	ListDevices(ctx context.Context) ([]*models.DeviceRecord, error)
	// ListRecentScans returns at most limit scans ordered by scan_date descending.
	ListRecentScans(ctx context.Context, limit int) ([]*models.ScanSummaryRecord, error)
	GetDevice(ctx context.Context, ip string) (*models.DeviceRecord, error)

	// UpdateDeviceNotes replaces the user-owned notes of a device.
	UpdateDeviceNotes(ctx context.Context, ip, notes string) error
}
