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
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

const (
	upsertDeviceSQL = `
		INSERT INTO devices (` + deviceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (ip) DO UPDATE SET
			mac = EXCLUDED.mac,
			vendor = EXCLUDED.vendor,
			hostname = EXCLUDED.hostname,
			first_seen = EXCLUDED.first_seen,
			last_seen = EXCLUDED.last_seen,
			status = EXCLUDED.status,
			os_info = EXCLUDED.os_info,
			services = EXCLUDED.services,
			vulnerabilities = EXCLUDED.vulnerabilities,
			updated_at = EXCLUDED.updated_at`

	upsertScanSQL = `
		INSERT INTO scans (` + scanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (scan_type, scan_date) DO UPDATE SET
			devices_found = EXCLUDED.devices_found,
			new_devices = EXCLUDED.new_devices,
			scan_file = EXCLUDED.scan_file,
			updated_at = EXCLUDED.updated_at`
)

// CNPGDB stores dashboard records in a CloudNativePG/Postgres cluster.
type CNPGDB struct {
	pool   *pgxpool.Pool
	logger logger.Logger
	now    func() time.Time
}

var _ Service = (*CNPGDB)(nil)

// NewCNPGDB connects to cfg, applies migrations and returns the store.
func NewCNPGDB(ctx context.Context, cfg *models.CNPGDatabase, log logger.Logger) (*CNPGDB, error) {
	if log == nil {
		log = logger.NewTestLogger()
	}

	pool, err := NewCNPGPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	db := &CNPGDB{pool: pool, logger: log, now: time.Now}

	if err := runMigrations(ctx, db, log); err != nil {
		pool.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return db, nil
}

func (db *CNPGDB) Close() error {
	db.pool.Close()

	return nil
}

func (db *CNPGDB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *CNPGDB) UpsertDevice(ctx context.Context, device *models.DeviceRecord) error {
	if device == nil {
		return ErrNilRecord
	}

	_, err := db.pool.Exec(ctx, upsertDeviceSQL,
		device.IP, device.MAC, device.Vendor, device.Hostname, device.FirstSeen, device.LastSeen,
		string(device.Status), device.OSInfo, device.Services, device.Vulnerabilities, device.Notes,
		db.now().UTC())
	if err != nil {
		return fmt.Errorf("%w device %s: %w", ErrFailedToInsert, device.IP, err)
	}

	return nil
}

func (db *CNPGDB) UpsertScanSummary(ctx context.Context, scan *models.ScanSummaryRecord) error {
	if scan == nil {
		return ErrNilRecord
	}

	_, err := db.pool.Exec(ctx, upsertScanSQL,
		scan.ScanType, scan.ScanDate, scan.DevicesFound, scan.NewDevices, scan.ScanFile, db.now().UTC())
	if err != nil {
		return fmt.Errorf("%w scan %s/%s: %w", ErrFailedToInsert, scan.ScanType, scan.ScanDate, err)
	}

	return nil
}

func (db *CNPGDB) ListDevices(ctx context.Context) ([]*models.DeviceRecord, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY last_seen DESC, ip ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w devices: %w", ErrFailedToQuery, err)
	}

	devices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.DeviceRecord, error) {
		return scanCNPGDevice(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%w devices: %w", ErrFailedToQuery, err)
	}

	return devices, nil
}

func (db *CNPGDB) ListRecentScans(ctx context.Context, limit int) ([]*models.ScanSummaryRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentScans
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+scanColumns+` FROM scans ORDER BY scan_date DESC, scan_type ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w scans: %w", ErrFailedToQuery, err)
	}

	scans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.ScanSummaryRecord, error) {
		var sc models.ScanSummaryRecord

		err := row.Scan(&sc.ScanType, &sc.ScanDate, &sc.DevicesFound, &sc.NewDevices, &sc.ScanFile,
			&sc.CreatedAt, &sc.UpdatedAt)

		return &sc, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w scans: %w", ErrFailedToQuery, err)
	}

	return scans, nil
}

func (db *CNPGDB) GetDevice(ctx context.Context, ip string) (*models.DeviceRecord, error) {
	device, err := scanCNPGDevice(db.pool.QueryRow(ctx, `SELECT `+deviceColumns+` FROM devices WHERE ip = $1`, ip))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, ip)
	}

	if err != nil {
		return nil, fmt.Errorf("%w device: %w", ErrFailedToScan, err)
	}

	return device, nil
}

func (db *CNPGDB) UpdateDeviceNotes(ctx context.Context, ip, notes string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE devices SET notes = $1, updated_at = $2 WHERE ip = $3`, notes, db.now().UTC(), ip)
	if err != nil {
		return fmt.Errorf("%w notes for %s: %w", ErrFailedToUpdate, ip, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, ip)
	}

	return nil
}

func scanCNPGDevice(row rowScanner) (*models.DeviceRecord, error) {
	var (
		d      models.DeviceRecord
		status string
	)

	if err := row.Scan(&d.IP, &d.MAC, &d.Vendor, &d.Hostname, &d.FirstSeen, &d.LastSeen, &status,
		&d.OSInfo, &d.Services, &d.Vulnerabilities, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}

	d.Status = models.DeviceStatus(status)

	return &d, nil
}

func (*CNPGDB) dialect() string { return "postgres" }

func (db *CNPGDB) ensureMigrationsTable(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
		version     TEXT PRIMARY KEY,
		applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)

	return err
}

func (db *CNPGDB) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := db.pool.Query(ctx, `SELECT version FROM `+migrationsTable)
	if err != nil {
		return nil, err
	}

	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	applied := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		applied[v] = struct{}{}
	}

	return applied, nil
}

func (db *CNPGDB) applyMigration(ctx context.Context, version string, statements []string) error {
	return pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		for idx, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("statement %d failed: %w", idx+1, err)
			}
		}

		if _, err := tx.Exec(ctx, `INSERT INTO `+migrationsTable+` (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("record version %s: %w", version, err)
		}

		return nil
	})
}
