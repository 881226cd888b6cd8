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

//go:generate mockgen -destination=mock_sync.go -package=sync github.com/carverauto/nmapping/pkg/sync Store,Puller,Publisher,Listener,Clock,Ticker

package sync

import (
	"context"
	"time"

	"github.com/carverauto/nmapping/pkg/models"
)

// Store receives the records produced by a sync run. Implementations must make each upsert
// atomic and serialize writes to the same key.
type Store interface {
	UpsertDevice(ctx context.Context, device *models.DeviceRecord) error
	UpsertScanSummary(ctx context.Context, scan *models.ScanSummaryRecord) error
}

// Puller refreshes the source directory before a cycle, e.g. with git pull.
type Puller interface {
	Pull(ctx context.Context) error
}

// Publisher announces completed cycles to other systems.
type Publisher interface {
	PublishSyncCompleted(ctx context.Context, result *models.SyncResult) error
}

// Listener is notified in-process after every completed cycle.
type Listener interface {
	SyncCompleted(ctx context.Context, result *models.SyncResult)
}

// Clock defines an interface for time-related operations (to mock ticker).
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker defines an interface for the ticker used in the sync loop.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}
