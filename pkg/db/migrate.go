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
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/carverauto/nmapping/pkg/logger"
)

const migrationsTable = "schema_migrations"

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// migrationTarget is the dialect-specific half of the migration runner.
type migrationTarget interface {
	dialect() string
	ensureMigrationsTable(ctx context.Context) error
	appliedVersions(ctx context.Context) (map[string]struct{}, error)
	// applyMigration runs statements and records version atomically.
	applyMigration(ctx context.Context, version string, statements []string) error
}

// runMigrations applies every embedded .up.sql file for the target's dialect that has not
// been recorded yet, in file name order.
func runMigrations(ctx context.Context, target migrationTarget, log logger.Logger) error {
	if err := target.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("%s migrations: create tracking table: %w", target.dialect(), err)
	}

	applied, err := target.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("%s migrations: list applied versions: %w", target.dialect(), err)
	}

	dir := path.Join("migrations", target.dialect())

	pending, err := pendingMigrations(migrationsFS, dir, applied)
	if err != nil {
		return fmt.Errorf("%s migrations: %w", target.dialect(), err)
	}

	for _, name := range pending {
		log.Info().Str("migration", name).Msg("Applying migration")

		content, err := fs.ReadFile(migrationsFS, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("%s migrations: read %s: %w", target.dialect(), name, err)
		}

		if err := target.applyMigration(ctx, migrationVersion(name), splitSQLStatements(string(content))); err != nil {
			return fmt.Errorf("%s migrations: %s: %w", target.dialect(), name, err)
		}

		log.Info().Str("migration", name).Msg("Migration complete")
	}

	return nil
}

// pendingMigrations lists the .up.sql files under dir whose version is not in applied.
// Down migrations are for manual rollbacks only.
func pendingMigrations(fsys fs.FS, dir string, applied map[string]struct{}) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		if _, ok := applied[migrationVersion(entry.Name())]; ok {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}
