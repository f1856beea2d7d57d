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
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "dailygrace/internal/log"
	"dailygrace/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// JournalFileName is the embedded database file under the journal root.
	JournalFileName = "journal.sqlite"
	BackupsDirName  = "backups"
	ExportsDirName  = "exports"

	// schemaVersion tracks the journal database schema. It mirrors the
	// version history of the app's earlier record store: v1 entries had only
	// date/prompts/reflection, v2 added mood/emotions/prayer/quote fields,
	// v3 added the daily quote cache. Bump it when adding collections or
	// columns and register the step in runMigrations. Migrations are
	// additive only; existing data is never dropped.
	schemaVersion = 3
)

// Standard subfolders scaffolded next to the database file.
var standardSubDirs = []string{
	ExportsDirName,
	BackupsDirName,
}

// Engine owns the open database handle and all journal collections.
// It is created once at startup via Open and held for the session.
type Engine struct {
	Root string
	db   *sql.DB
}

// JournalPath returns the full path to the journal database file.
func JournalPath(root string) string {
	return filepath.Join(root, JournalFileName)
}

// Open establishes (creating if absent) the journal at root: scaffolds the
// directory, opens the database, enables WAL mode, ensures the meta/version
// tables and the three record collections, and applies pending additive
// migrations. It is idempotent across application starts.
//
// All failures in this phase are tagged ErrStorageUnavailable: if Open does
// not succeed, no journal operation can.
func Open(root string) (*Engine, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "open").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, unavailable("open journal", errors.New("journal root is required"))
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		l.Error("create journal root failed", slog.Any("err", err))
		return nil, unavailable("create journal root", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			l.Error("create subdir failed", slog.String("dir", d), slog.Any("err", err))
			return nil, unavailable("create subdir "+d, err)
		}
	}

	path := JournalPath(root)
	// URI with shared cache and a busy timeout. Forward slashes for the
	// SQLite URI on all platforms.
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, unavailable("open sqlite", err)
	}
	// Single-writer embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, unavailable("enable WAL", err)
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, unavailable("ensure meta/version", err)
	}
	if err := ensureJournalSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure journal schema failed", slog.Any("err", err))
		return nil, unavailable("ensure journal schema", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, unavailable("run migrations", err)
	}

	l.Info("journal ready", slog.String("path", path))
	return &Engine{Root: root, db: db}, nil
}

// Close releases the database handle. The engine is unusable afterwards.
func (e *Engine) Close() error {
	if e == nil || e.db == nil {
		return nil
	}
	return e.db.Close()
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Fresh database: seed with the current schema version.
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Keep the stored schema for migrations; refresh app and timestamp.
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureJournalSchema creates the three collections and their lookup indexes
// at the current shape if they do not exist.
//
// There is deliberately no FOREIGN KEY cascade from images to entries: the
// entry wipe operation is entry-scoped and must leave the images collection
// untouched, so referential integrity between the two collections is
// enforced by the engine's own transactions instead.
func ensureJournalSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			date         TEXT    NOT NULL,
			mood_rating  INTEGER,
			emotions     TEXT    NOT NULL DEFAULT '[]',
			prayed_today INTEGER NOT NULL DEFAULT 0,
			bible_quote  TEXT,
			prompts      TEXT    NOT NULL DEFAULT '[]',
			reflection   TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);`,

		`CREATE TABLE IF NOT EXISTS images (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			entry_id INTEGER NOT NULL,
			data     TEXT    NOT NULL,
			type     TEXT    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_images_entry ON images(entry_id);`,

		`CREATE TABLE IF NOT EXISTS quotes (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			date  TEXT NOT NULL,
			quote TEXT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_quotes_date ON quotes(date);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure journal schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental additive migrations up to schemaVersion.
// A database newer than this build is left alone.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			if err := migrateEntriesColumns(ctx, db); err != nil {
				return fmt.Errorf("migration %d: %w", next, err)
			}
		case 3:
			// Quote cache collection. ensureJournalSchema already created it
			// with IF NOT EXISTS; nothing more to do than record the step.
		default:
			// Unknown future step; stop walking.
		}
		if _, err := db.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		cur = next
	}
	return nil
}

// migrateEntriesColumns brings a v1 entries table up to the v2 shape by
// adding the columns introduced with mood tracking. Existing rows keep their
// data; new columns get the save-time defaults.
func migrateEntriesColumns(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `PRAGMA table_info(entries);`)
	if err != nil {
		return fmt.Errorf("table_info entries: %w", err)
	}
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	alters := map[string]string{
		"mood_rating":  `ALTER TABLE entries ADD COLUMN mood_rating INTEGER`,
		"emotions":     `ALTER TABLE entries ADD COLUMN emotions TEXT NOT NULL DEFAULT '[]'`,
		"prayed_today": `ALTER TABLE entries ADD COLUMN prayed_today INTEGER NOT NULL DEFAULT 0`,
		"bible_quote":  `ALTER TABLE entries ADD COLUMN bible_quote TEXT`,
	}
	for col, stmt := range alters {
		if cols[col] {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add %s: %w", col, err)
		}
	}
	return nil
}
