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

package db

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

const (
	defaultCNPGPort = 5432
	sslModeDisable  = "disable"
	sslModeVerify   = "verify-full"
)

// NewCNPGPool dials the configured CNPG cluster and returns a pgx pool.
func NewCNPGPool(ctx context.Context, cfg *models.CNPGDatabase, log logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := buildCNPGPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("cnpg: failed to initialize pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("%w: cnpg ping: %w", ErrFailedOpenDB, err)
	}

	if log != nil {
		log.Info().
			Str("host", cfg.Host).
			Str("database", cfg.Database).
			Int32("max_conns", poolConfig.MaxConns).
			Msg("connected to CNPG cluster")
	}

	return pool, nil
}

func buildCNPGPoolConfig(cfg *models.CNPGDatabase) (*pgxpool.Config, error) {
	connURL, err := buildCNPGConnURL(cfg)
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(connURL.String())
	if err != nil {
		return nil, fmt.Errorf("cnpg: failed to parse connection string: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}

	if cfg.MinConnections > 0 {
		poolConfig.MinConns = cfg.MinConnections
	}

	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime)
	}

	if cfg.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = time.Duration(cfg.HealthCheckPeriod)
	}

	if poolConfig.ConnConfig.RuntimeParams == nil {
		poolConfig.ConnConfig.RuntimeParams = make(map[string]string)
	}

	for k, v := range cfg.ExtraRuntimeParams {
		if k == "" || strings.EqualFold(k, "sslmode") {
			continue
		}

		poolConfig.ConnConfig.RuntimeParams[k] = v
	}

	if cfg.StatementTimeout > 0 {
		ms := time.Duration(cfg.StatementTimeout).Milliseconds()
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(ms, 10)
	}

	return poolConfig, nil
}

// buildCNPGConnURL renders cfg as a postgres:// URL. TLS material is passed through the
// sslcert, sslkey and sslrootcert parameters so pgx builds the client TLS config.
func buildCNPGConnURL(cfg *models.CNPGDatabase) (*url.URL, error) {
	if cfg == nil {
		return nil, ErrCNPGConfigMissing
	}

	port := cfg.Port
	if port == 0 {
		port = defaultCNPGPort
	}

	connURL := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, port),
		Path:   "/" + cfg.Database,
	}

	if cfg.Username != "" {
		if cfg.Password != "" {
			connURL.User = url.UserPassword(cfg.Username, cfg.Password)
		} else {
			connURL.User = url.User(cfg.Username)
		}
	}

	sslMode, err := resolveCNPGSSLMode(cfg)
	if err != nil {
		return nil, err
	}

	query := connURL.Query()
	query.Set("sslmode", sslMode)

	if cfg.ApplicationName != "" {
		query.Set("application_name", cfg.ApplicationName)
	}

	if cfg.TLS != nil {
		resolve := func(path string) string {
			if path == "" || filepath.IsAbs(path) || cfg.CertDir == "" {
				return path
			}

			return filepath.Join(cfg.CertDir, path)
		}

		certFile := resolve(cfg.TLS.CertFile)
		keyFile := resolve(cfg.TLS.KeyFile)
		caFile := resolve(cfg.TLS.CAFile)

		if certFile == "" || keyFile == "" || caFile == "" {
			return nil, ErrCNPGTLSIncomplete
		}

		query.Set("sslcert", certFile)
		query.Set("sslkey", keyFile)
		query.Set("sslrootcert", caFile)
	}

	connURL.RawQuery = query.Encode()

	return connURL, nil
}

// resolveCNPGSSLMode picks ssl_mode, then an sslmode runtime parameter, then a default that
// depends on whether TLS material is configured.
func resolveCNPGSSLMode(cfg *models.CNPGDatabase) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.SSLMode))

	if mode == "" {
		for k, v := range cfg.ExtraRuntimeParams {
			if strings.EqualFold(k, "sslmode") {
				mode = strings.ToLower(strings.TrimSpace(v))
			}
		}
	}

	if mode == "" {
		if cfg.TLS != nil {
			return sslModeVerify, nil
		}

		return sslModeDisable, nil
	}

	if mode == sslModeDisable && cfg.TLS != nil {
		return "", ErrCNPGTLSDisabled
	}

	return mode, nil
}
