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

// Package db persists device and scan summary records for the dashboard.
package db

import (
	"context"
	"fmt"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

// New opens the backend selected by cfg.Type. An empty type means SQLite.
func New(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (Service, error) {
	if cfg == nil {
		cfg = &models.DatabaseConfig{}
	}

	switch cfg.Type {
	case "", models.DatabaseTypeSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = sqliteMemory
		}

		store, err := NewSQLiteDB(ctx, path, log)
		if err != nil {
			return nil, err
		}

		return store, nil
	case models.DatabaseTypePostgres:
		store, err := NewCNPGDB(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}

		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, cfg.Type)
	}
}
