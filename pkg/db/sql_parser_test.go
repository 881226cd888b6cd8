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
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLStatementsHandlesDollarQuotedBlocks(t *testing.T) {
	content := `
-- touch trigger
CREATE TABLE t (id INT);

CREATE FUNCTION touch() RETURNS trigger AS $$
BEGIN
    NEW.updated_at := now();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

SELECT 1;
`

	statements := splitSQLStatements(content)

	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %#v", len(statements), statements)
	}

	if !strings.HasPrefix(statements[1], "CREATE FUNCTION") || !strings.HasSuffix(statements[1], "LANGUAGE plpgsql") {
		t.Fatalf("expected function body as second statement, got %q", statements[1])
	}

	if statements[2] != "SELECT 1" {
		t.Fatalf("unexpected tail statement: %q", statements[2])
	}
}

func TestSplitSQLStatementsIgnoresSemicolonsInQuotes(t *testing.T) {
	content := `
INSERT INTO notes(body) VALUES('hello;world'), ('it''s;fine');
/* block; comment */ SELECT "odd;name" FROM t WHERE id = $1;
DO $tag$
BEGIN
    PERFORM do_something('value;with;semicolons');
END $tag$;
`

	statements := splitSQLStatements(content)

	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %#v", len(statements), statements)
	}

	if !strings.HasSuffix(statements[0], "('it''s;fine')") {
		t.Fatalf("unexpected first statement: %q", statements[0])
	}

	if statements[1] != `SELECT "odd;name" FROM t WHERE id = $1` {
		t.Fatalf("unexpected second statement: %q", statements[1])
	}

	if !strings.HasPrefix(statements[2], "DO") || !strings.HasSuffix(statements[2], "$tag$") {
		t.Fatalf("unexpected DO statement: %q", statements[2])
	}
}

func TestSplitSQLStatementsEmbeddedMigrations(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres"} {
		content, err := migrationsFS.ReadFile("migrations/" + dialect + "/00000000000001_devices_and_scans.up.sql")
		require.NoError(t, err)

		statements := splitSQLStatements(string(content))
		require.NotEmpty(t, statements, dialect)

		for _, stmt := range statements {
			assert.NotContains(t, stmt, "--", dialect)
		}
	}
}

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"m/00000000000002_b.up.sql":   {Data: []byte("SELECT 2;")},
		"m/00000000000001_a.up.sql":   {Data: []byte("SELECT 1;")},
		"m/00000000000001_a.down.sql": {Data: []byte("SELECT 0;")},
		"m/00000000000003_c.up.sql":   {Data: []byte("SELECT 3;")},
	}

	pending, err := pendingMigrations(fsys, "m", map[string]struct{}{"00000000000002": {}})
	require.NoError(t, err)
	assert.Equal(t, []string{"00000000000001_a.up.sql", "00000000000003_c.up.sql"}, pending)

	_, err = pendingMigrations(fsys, "missing", nil)
	require.Error(t, err)
}

func TestMigrationVersion(t *testing.T) {
	assert.Equal(t, "00000000000001", migrationVersion("00000000000001_devices_and_scans.up.sql"))
	assert.Equal(t, "plain.sql", migrationVersion("plain.sql"))
}
