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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{name: "string", input: `"5m"`, expected: 5 * time.Minute},
		{name: "nanoseconds", input: `1000000000`, expected: time.Second},
		{name: "bad string", input: `"soon"`, wantErr: true},
		{name: "wrong type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, time.Duration(d))
		})
	}
}

func TestDurationMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.JSONEq(t, `"1m30s"`, string(b))
}

func TestDashboardConfigValidateDefaults(t *testing.T) {
	cfg := &DashboardConfig{SourceDir: "/data/scanner"}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, defaultSyncInterval, time.Duration(cfg.SyncInterval))
	assert.Equal(t, defaultWorkers, cfg.Workers)
	assert.Equal(t, "git", cfg.Git.Binary)
	assert.Equal(t, DatabaseTypeSQLite, cfg.Database.Type)
	assert.Equal(t, defaultSQLitePath, cfg.Database.SQLitePath)
}

func TestDashboardConfigValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  DashboardConfig
		want error
	}{
		{
			name: "missing source dir",
			cfg:  DashboardConfig{},
			want: errSourceDirRequired,
		},
		{
			name: "negative workers",
			cfg:  DashboardConfig{SourceDir: "/x", Workers: -1},
			want: errNegativeWorkers,
		},
		{
			name: "unknown database",
			cfg:  DashboardConfig{SourceDir: "/x", Database: DatabaseConfig{Type: "mongo"}},
			want: errUnknownDatabaseType,
		},
		{
			name: "postgres without host",
			cfg:  DashboardConfig{SourceDir: "/x", Database: DatabaseConfig{Type: DatabaseTypePostgres}},
			want: errPostgresHostRequired,
		},
		{
			name: "postgres without database",
			cfg: DashboardConfig{SourceDir: "/x", Database: DatabaseConfig{
				Type:     DatabaseTypePostgres,
				Postgres: &CNPGDatabase{Host: "db"},
			}},
			want: errPostgresDBRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDashboardConfigNATSDefaults(t *testing.T) {
	cfg := &DashboardConfig{SourceDir: "/x", NATS: &NATSConfig{URL: "nats://localhost:4222"}}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultNATSStream, cfg.NATS.Stream)
	assert.Equal(t, defaultNATSSubject, cfg.NATS.Subject)
}
