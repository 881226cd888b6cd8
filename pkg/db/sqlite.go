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
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/carverauto/nmapping/pkg/logger"
	"github.com/carverauto/nmapping/pkg/models"
)

const (
	sqliteMemory = ":memory:"

	// DefaultRecentScans is the number of scans returned when no limit is given.
	DefaultRecentScans = 10

	deviceColumns = `ip, mac, vendor, hostname, first_seen, last_seen, status, os_info,
		services, vulnerabilities, notes, created_at, updated_at`
	scanColumns = `scan_type, scan_date, devices_found, new_devices, scan_file, created_at, updated_at`
)

// rowScanner is satisfied by *sql.Row, *sql.Rows, pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// SQLiteDB is the embedded storage backend. A single connection serializes all writes.
type SQLiteDB struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
}

var _ Service = (*SQLiteDB)(nil)

// NewSQLiteDB opens (creating if needed) the database at path and applies migrations.
// Use ":memory:" for a private in-memory database.
func NewSQLiteDB(ctx context.Context, path string, log logger.Logger) (*SQLiteDB, error) {
	if log == nil {
		log = logger.NewTestLogger()
	}

	dsn := sqliteMemory

	if path != sqliteMemory {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("%w: create %s: %w", ErrFailedOpenDB, dir, err)
			}
		}

		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// An in-memory database exists per connection, and one writer avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	s := &SQLiteDB{db: conn, logger: log, now: time.Now}

	if err := runMigrations(ctx, s, log); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	log.Info().Str("path", path).Msg("SQLite database ready")

	return s, nil
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteDB) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteDB) UpsertDevice(ctx context.Context, device *models.DeviceRecord) error {
	if device == nil {
		return ErrNilRecord
	}

	ts := s.timestamp()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO devices (`+deviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ip) DO UPDATE SET
			mac = excluded.mac,
			vendor = excluded.vendor,
			hostname = excluded.hostname,
			first_seen = excluded.first_seen,
			last_seen = excluded.last_seen,
			status = excluded.status,
			os_info = excluded.os_info,
			services = excluded.services,
			vulnerabilities = excluded.vulnerabilities,
			updated_at = excluded.updated_at`,
		device.IP, device.MAC, device.Vendor, device.Hostname, device.FirstSeen, device.LastSeen,
		string(device.Status), device.OSInfo, device.Services, device.Vulnerabilities, device.Notes,
		ts, ts)
	if err != nil {
		return fmt.Errorf("%w device %s: %w", ErrFailedToInsert, device.IP, err)
	}

	return nil
}

func (s *SQLiteDB) UpsertScanSummary(ctx context.Context, scan *models.ScanSummaryRecord) error {
	if scan == nil {
		return ErrNilRecord
	}

	ts := s.timestamp()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (`+scanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scan_type, scan_date) DO UPDATE SET
			devices_found = excluded.devices_found,
			new_devices = excluded.new_devices,
			scan_file = excluded.scan_file,
			updated_at = excluded.updated_at`,
		scan.ScanType, scan.ScanDate, scan.DevicesFound, scan.NewDevices, scan.ScanFile, ts, ts)
	if err != nil {
		return fmt.Errorf("%w scan %s/%s: %w", ErrFailedToInsert, scan.ScanType, scan.ScanDate, err)
	}

	return nil
}

func (s *SQLiteDB) ListDevices(ctx context.Context) ([]*models.DeviceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY last_seen DESC, ip ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w devices: %w", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	devices := make([]*models.DeviceRecord, 0)

	for rows.Next() {
		device, err := scanSQLiteDevice(rows)
		if err != nil {
			return nil, err
		}

		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w devices: %w", ErrFailedToQuery, err)
	}

	return devices, nil
}

func (s *SQLiteDB) ListRecentScans(ctx context.Context, limit int) ([]*models.ScanSummaryRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentScans
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scanColumns+` FROM scans ORDER BY scan_date DESC, scan_type ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w scans: %w", ErrFailedToQuery, err)
	}
	defer func() { _ = rows.Close() }()

	scans := make([]*models.ScanSummaryRecord, 0, limit)

	for rows.Next() {
		scan, err := scanSQLiteScan(rows)
		if err != nil {
			return nil, err
		}

		scans = append(scans, scan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w scans: %w", ErrFailedToQuery, err)
	}

	return scans, nil
}

func (s *SQLiteDB) GetDevice(ctx context.Context, ip string) (*models.DeviceRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deviceColumns+` FROM devices WHERE ip = ?`, ip)

	device, err := scanSQLiteDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, ip)
	}

	return device, err
}

func (s *SQLiteDB) UpdateDeviceNotes(ctx context.Context, ip, notes string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE devices SET notes = ?, updated_at = ? WHERE ip = ?`, notes, s.timestamp(), ip)
	if err != nil {
		return fmt.Errorf("%w notes for %s: %w", ErrFailedToUpdate, ip, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w notes for %s: %w", ErrFailedToUpdate, ip, err)
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, ip)
	}

	return nil
}

func scanSQLiteDevice(row rowScanner) (*models.DeviceRecord, error) {
	var (
		d                    models.DeviceRecord
		status               string
		createdAt, updatedAt string
	)

	err := row.Scan(&d.IP, &d.MAC, &d.Vendor, &d.Hostname, &d.FirstSeen, &d.LastSeen, &status,
		&d.OSInfo, &d.Services, &d.Vulnerabilities, &d.Notes, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if err != nil {
		return nil, fmt.Errorf("%w device: %w", ErrFailedToScan, err)
	}

	d.Status = models.DeviceStatus(status)
	d.CreatedAt = parseTimestamp(createdAt)
	d.UpdatedAt = parseTimestamp(updatedAt)

	return &d, nil
}

func scanSQLiteScan(row rowScanner) (*models.ScanSummaryRecord, error) {
	var (
		sc                   models.ScanSummaryRecord
		createdAt, updatedAt string
	)

	if err := row.Scan(&sc.ScanType, &sc.ScanDate, &sc.DevicesFound, &sc.NewDevices, &sc.ScanFile,
		&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w scan: %w", ErrFailedToScan, err)
	}

	sc.CreatedAt = parseTimestamp(createdAt)
	sc.UpdatedAt = parseTimestamp(updatedAt)

	return &sc, nil
}

// parseTimestamp reads the RFC 3339 text the store writes; anything else is the zero time.
func parseTimestamp(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}
	}

	return ts
}

func (*SQLiteDB) dialect() string { return "sqlite" }

func (s *SQLiteDB) ensureMigrationsTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationsTable+` (
		version    TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`)

	return err
}

func (s *SQLiteDB) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT version FROM `+migrationsTable)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[string]struct{})

	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}

		applied[version] = struct{}{}
	}

	return applied, rows.Err()
}

func (s *SQLiteDB) applyMigration(ctx context.Context, version string, statements []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for idx, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d failed: %w", idx+1, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+migrationsTable+` (version, applied_at) VALUES (?, ?)`, version, s.timestamp()); err != nil {
		return fmt.Errorf("record version %s: %w", version, err)
	}

	return tx.Commit()
}
