/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dailygrace/internal/domain"

	_ "modernc.org/sqlite"
)

func TestOpenCreatesWALSchemaAndVersion(t *testing.T) {
	root := t.TempDir()
	eng, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer eng.Close()

	if _, err := os.Stat(JournalPath(root)); err != nil {
		t.Fatalf("journal file missing: %v", err)
	}
	for _, d := range []string{BackupsDirName, ExportsDirName} {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Fatalf("subdir %s missing: %v", d, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var mode string
	if err := eng.db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if mode != "wal" && mode != "WAL" {
		t.Fatalf("expected WAL mode, got %s", mode)
	}

	var cnt int
	if err := eng.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('meta','version','entries','images','quotes')").Scan(&cnt); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if cnt != 5 {
		t.Fatalf("expected 5 tables, got %d", cnt)
	}

	var schema int
	if err := eng.db.QueryRowContext(ctx, "SELECT schema FROM version WHERE id=1").Scan(&schema); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("expected schema %d, got %d", schemaVersion, schema)
	}
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	root := t.TempDir()
	eng, err := Open(root)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	id, err := eng.SaveEntry(context.Background(), domain.JournalEntry{Reflection: "survives restart"}, nil)
	if err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	eng2, err := Open(root)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer eng2.Close()
	got, err := eng2.GetEntry(context.Background(), id)
	if err != nil {
		t.Fatalf("GetEntry after reopen: %v", err)
	}
	if got == nil || got.Reflection != "survives restart" {
		t.Fatalf("entry lost across restart: %+v", got)
	}
}

func TestOpenEmptyRootIsStorageUnavailable(t *testing.T) {
	_, err := Open("  ")
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestErrorKindsAfterClose(t *testing.T) {
	eng, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	ctx := context.Background()

	if _, err := eng.SaveEntry(ctx, domain.JournalEntry{}, nil); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
	if _, err := eng.GetEntry(ctx, 1); !errors.Is(err, ErrReadFailed) {
		t.Fatalf("expected ErrReadFailed, got %v", err)
	}
	if err := eng.DeleteEntry(ctx, 1); !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
}

// seedV1Database builds a database shaped like the first schema generation:
// entries without the mood columns, no quotes table, version schema=1.
func seedV1Database(t *testing.T, root string) {
	t.Helper()
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(2000)", filepath.ToSlash(JournalPath(root)))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	stmts := []string{
		`CREATE TABLE meta (key TEXT PRIMARY KEY, value TEXT NOT NULL);`,
		`CREATE TABLE version (id INTEGER PRIMARY KEY CHECK(id=1), schema INTEGER NOT NULL, app TEXT, created_at TEXT NOT NULL, updated_at TEXT NOT NULL);`,
		`INSERT INTO version (id, schema, app, created_at, updated_at) VALUES (1, 1, 'v0.1.0', '2023-01-01T00:00:00Z', '2023-01-01T00:00:00Z');`,
		`CREATE TABLE entries (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			date       TEXT NOT NULL,
			prompts    TEXT NOT NULL DEFAULT '[]',
			reflection TEXT
		);`,
		`CREATE TABLE images (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id INTEGER NOT NULL,
			data     TEXT NOT NULL,
			type     TEXT NOT NULL
		);`,
		`INSERT INTO entries (date, prompts, reflection) VALUES ('2023-06-01T10:00:00Z', '[]', 'pre-migration entry');`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			t.Fatalf("seed v1: %v", err)
		}
	}
}

func TestMigrationFromV1PreservesDataAndAddsColumns(t *testing.T) {
	root := t.TempDir()
	seedV1Database(t, root)

	eng, err := Open(root)
	if err != nil {
		t.Fatalf("Open over v1 database: %v", err)
	}
	defer eng.Close()
	ctx := context.Background()

	var schema int
	if err := eng.db.QueryRowContext(ctx, "SELECT schema FROM version WHERE id=1").Scan(&schema); err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("expected upgraded schema %d, got %d", schemaVersion, schema)
	}

	// Old row readable through the current decoder with defaulted new fields.
	got, err := eng.GetEntry(ctx, 1)
	if err != nil {
		t.Fatalf("GetEntry after migration: %v", err)
	}
	if got == nil || got.Reflection != "pre-migration entry" {
		t.Fatalf("v1 row lost: %+v", got)
	}
	if got.MoodRating != nil || got.PrayedToday || got.BibleQuote != "" {
		t.Fatalf("migrated row should carry defaults: %+v", got)
	}

	// New shape is fully usable: quote cache and mood columns work.
	mood := 5
	if _, err := eng.SaveEntry(ctx, domain.JournalEntry{MoodRating: &mood, Reflection: "post"}, nil); err != nil {
		t.Fatalf("SaveEntry after migration: %v", err)
	}
	if err := eng.SaveBibleQuote(ctx, "verse", time.Now()); err != nil {
		t.Fatalf("SaveBibleQuote after migration: %v", err)
	}
}

func TestMigrationNewerSchemaIsLeftAlone(t *testing.T) {
	root := t.TempDir()
	eng, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	if _, err := eng.db.ExecContext(ctx, "UPDATE version SET schema=99 WHERE id=1"); err != nil {
		t.Fatalf("bump schema: %v", err)
	}
	eng.Close()

	eng2, err := Open(root)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer eng2.Close()
	var schema int
	if err := eng2.db.QueryRowContext(ctx, "SELECT schema FROM version WHERE id=1").Scan(&schema); err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if schema != 99 {
		t.Fatalf("newer database must not be downgraded, got %d", schema)
	}
}
