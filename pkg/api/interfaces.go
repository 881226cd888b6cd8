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

// Package api pkg/api/interfaces.go
package api

import (
	"context"

	"github.com/carverauto/nmapping/pkg/models"
	"github.com/carverauto/nmapping/pkg/report"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/carverauto/nmapping/pkg/api SyncService

// Store is the read side of the dashboard database plus user-owned notes.
type Store interface {
	Ping(ctx context.Context) error
	ListDevices(ctx context.Context) ([]*models.DeviceRecord, error)
	ListRecentScans(ctx context.Context, limit int) ([]*models.ScanSummaryRecord, error)
	GetDevice(ctx context.Context, ip string) (*models.DeviceRecord, error)
	UpdateDeviceNotes(ctx context.Context, ip, notes string) error
}

// SyncService runs sync cycles on demand and reports on past ones.
type SyncService interface {
	RunOnce(ctx context.Context, trigger string) (*models.SyncResult, error)
	Reprocess(ctx context.Context, name string) report.Result
	LastResult() (*models.SyncResult, error)
	Metrics() map[string]interface{}
}
