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
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/nmapping/pkg/logger"
)

// Duration is a time.Duration that unmarshals from either a Go duration string ("5m")
// or a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

const (
	DatabaseTypeSQLite   = "sqlite"
	DatabaseTypePostgres = "postgres"

	defaultListenAddr   = ":5000"
	defaultSourceDir    = "/dashboard/scanner_data"
	defaultSQLitePath   = "/dashboard/data/dashboard.db"
	defaultSyncInterval = 5 * time.Minute
	defaultGitTimeout   = 60 * time.Second
	defaultDebounce     = 2 * time.Second
	defaultWorkers      = 4
	defaultNATSStream   = "nmapping"
	defaultNATSSubject  = "nmapping.sync.completed"
)

var (
	errInvalidDuration      = errors.New("invalid duration")
	errSourceDirRequired    = errors.New("source_dir is required")
	errUnknownDatabaseType  = errors.New("unknown database type")
	errPostgresHostRequired = errors.New("database.postgres.host is required")
	errPostgresDBRequired   = errors.New("database.postgres.database is required")
	errNegativeWorkers      = errors.New("workers must not be negative")
)

// CORSConfig configures cross-origin access to the API.
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins,omitempty"`
	AllowCredentials bool     `json:"allow_credentials,omitempty"`
}

// GitConfig controls the source-control pull that precedes every sync cycle.
type GitConfig struct {
	Enabled bool     `json:"enabled"`
	Binary  string   `json:"binary,omitempty"`
	Remote  string   `json:"remote,omitempty"`
	Branch  string   `json:"branch,omitempty"`
	Timeout Duration `json:"timeout,omitempty"`
}

// WatchConfig controls file-system triggered syncs.
type WatchConfig struct {
	Enabled  bool     `json:"enabled"`
	Debounce Duration `json:"debounce,omitempty"`
}

// TLSConfig names the client certificate material for a TLS database connection.
// Relative paths are resolved against CNPGDatabase.CertDir.
type TLSConfig struct {
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
	CAFile   string `json:"ca_file"`
}

// CNPGDatabase describes a Postgres (CloudNativePG) connection.
type CNPGDatabase struct {
	Host               string            `json:"host"`
	Port               int               `json:"port,omitempty"`
	Database           string            `json:"database"`
	Username           string            `json:"username,omitempty"`
	Password           string            `json:"password,omitempty" sensitive:"true"`
	SSLMode            string            `json:"ssl_mode,omitempty"`
	CertDir            string            `json:"cert_dir,omitempty"`
	TLS                *TLSConfig        `json:"tls,omitempty"`
	ApplicationName    string            `json:"application_name,omitempty"`
	MaxConnections     int32             `json:"max_connections,omitempty"`
	MinConnections     int32             `json:"min_connections,omitempty"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod  Duration          `json:"health_check_period,omitempty"`
	StatementTimeout   Duration          `json:"statement_timeout,omitempty"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Type       string        `json:"type"`
	SQLitePath string        `json:"sqlite_path,omitempty"`
	Postgres   *CNPGDatabase `json:"postgres,omitempty"`
}

// NATSConfig enables sync event publishing to JetStream.
type NATSConfig struct {
	URL        string     `json:"url"`
	Stream     string     `json:"stream,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	CredsFile  string     `json:"creds_file,omitempty"`
	CertDir    string     `json:"cert_dir,omitempty"`
	ServerName string     `json:"server_name,omitempty"`
	TLS        *TLSConfig `json:"tls,omitempty"`
}

// DashboardConfig is the configuration of the dashboard service and the sync CLI.
type DashboardConfig struct {
	ListenAddr   string         `json:"listen_addr"`
	SourceDir    string         `json:"source_dir"`
	SyncInterval Duration       `json:"sync_interval"`
	Workers      int            `json:"workers"`
	Git          GitConfig      `json:"git"`
	Watch        WatchConfig    `json:"watch"`
	Database     DatabaseConfig `json:"database"`
	NATS         *NATSConfig    `json:"nats,omitempty"`
	CORS         CORSConfig     `json:"cors,omitempty"`
	APIKey       string         `json:"api_key,omitempty" sensitive:"true"`
	Logging      *logger.Config `json:"logging,omitempty"`
}

// Validate fills defaults and rejects configurations that cannot run.
func (c *DashboardConfig) Validate() error {
	if c.SourceDir == "" {
		return errSourceDirRequired
	}

	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if c.SyncInterval <= 0 {
		c.SyncInterval = Duration(defaultSyncInterval)
	}

	if c.Workers < 0 {
		return errNegativeWorkers
	}

	if c.Workers == 0 {
		c.Workers = defaultWorkers
	}

	if c.Git.Timeout <= 0 {
		c.Git.Timeout = Duration(defaultGitTimeout)
	}

	if c.Git.Binary == "" {
		c.Git.Binary = "git"
	}

	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(defaultDebounce)
	}

	if err := c.Database.validate(); err != nil {
		return err
	}

	if c.NATS != nil && c.NATS.URL != "" {
		if c.NATS.Stream == "" {
			c.NATS.Stream = defaultNATSStream
		}

		if c.NATS.Subject == "" {
			c.NATS.Subject = defaultNATSSubject
		}
	}

	return nil
}

func (d *DatabaseConfig) validate() error {
	switch d.Type {
	case "", DatabaseTypeSQLite:
		d.Type = DatabaseTypeSQLite

		if d.SQLitePath == "" {
			d.SQLitePath = defaultSQLitePath
		}
	case DatabaseTypePostgres:
		if d.Postgres == nil || d.Postgres.Host == "" {
			return errPostgresHostRequired
		}

		if d.Postgres.Database == "" {
			return errPostgresDBRequired
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownDatabaseType, d.Type)
	}

	return nil
}
