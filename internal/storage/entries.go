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
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"dailygrace/internal/domain"
	applog "dailygrace/internal/log"
)

// language=SQL
// dialect=SQLite
const insertEntrySQL = `INSERT INTO entries(date, mood_rating, emotions, prayed_today, bible_quote, prompts, reflection)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// language=SQL
// dialect=SQLite
const insertImageSQL = `INSERT INTO images(entry_id, data, type) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectEntrySQL = `SELECT id, date, mood_rating, emotions, prayed_today, bible_quote, prompts, reflection
	FROM entries WHERE id = ?`

// language=SQL
// dialect=SQLite
const selectAllEntriesSQL = `SELECT id, date, mood_rating, emotions, prayed_today, bible_quote, prompts, reflection
	FROM entries ORDER BY id`

// language=SQL
// dialect=SQLite
const selectEntryImagesSQL = `SELECT id, entry_id, data, type FROM images WHERE entry_id = ? ORDER BY id`

// language=SQL
// dialect=SQLite
const selectAllImagesSQL = `SELECT id, entry_id, data, type FROM images ORDER BY id`

// language=SQL
// dialect=SQLite
const countEntriesSQL = `SELECT COUNT(*) FROM entries`

// language=SQL
// dialect=SQLite
const deleteEntrySQL = `DELETE FROM entries WHERE id = ?`

// language=SQL
// dialect=SQLite
const deleteEntryImagesSQL = `DELETE FROM images WHERE entry_id = ?`

// language=SQL
// dialect=SQLite
const clearEntriesSQL = `DELETE FROM entries`

// SaveEntry persists a new journal entry and its attached images in one
// transaction and returns the store-assigned entry id. Missing optional
// fields are normalized to their defaults rather than rejected. Either the
// entry and all its images become visible together, or nothing does.
func (e *Engine) SaveEntry(ctx context.Context, entry domain.JournalEntry, images []domain.JournalImage) (int64, error) {
	entry.Normalize(time.Now())
	emotions, err := json.Marshal(entry.Emotions)
	if err != nil {
		return 0, writeFailed("encode emotions", err)
	}
	prompts, err := json.Marshal(entry.Prompts)
	if err != nil {
		return 0, writeFailed("encode prompts", err)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, writeFailed("begin save entry", err)
	}
	res, err := tx.ExecContext(ctx, insertEntrySQL,
		entry.Date.Format(time.RFC3339Nano),
		nullableInt(entry.MoodRating),
		string(emotions),
		boolToInt(entry.PrayedToday),
		nullableString(entry.BibleQuote),
		string(prompts),
		nullableString(entry.Reflection),
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, writeFailed("insert entry", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, writeFailed("entry id", err)
	}
	// Images are stamped with the freshly assigned entry id; an entry with a
	// failed image insert never becomes visible.
	for _, img := range images {
		if _, err := tx.ExecContext(ctx, insertImageSQL, id, img.Data, img.Type); err != nil {
			_ = tx.Rollback()
			return 0, writeFailed("insert image", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, writeFailed("commit save entry", err)
	}
	applog.WithComponent("storage").Debug("entry saved",
		slog.Int64("id", id), slog.Int("images", len(images)))
	return id, nil
}

// GetEntry returns the entry with the given id, or nil if it does not exist.
func (e *Engine) GetEntry(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	row := e.db.QueryRowContext(ctx, selectEntrySQL, id)
	entry, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, readFailed("get entry", err)
	}
	return entry, nil
}

// GetEntryImages returns the images attached to the entry, oldest first.
// An entry without images (or an unknown id) yields an empty slice.
func (e *Engine) GetEntryImages(ctx context.Context, entryID int64) ([]domain.JournalImage, error) {
	rows, err := e.db.QueryContext(ctx, selectEntryImagesSQL, entryID)
	if err != nil {
		return nil, readFailed("get entry images", err)
	}
	defer func() { _ = rows.Close() }()
	return scanImages(rows)
}

// GetAllEntries returns every entry sorted by date descending. The rows come
// back in insertion order; the date sort happens here because insertion order
// and date order diverge when entries are back-dated. Ties keep insertion
// order (stable sort).
func (e *Engine) GetAllEntries(ctx context.Context) ([]domain.JournalEntry, error) {
	rows, err := e.db.QueryContext(ctx, selectAllEntriesSQL)
	if err != nil {
		return nil, readFailed("get all entries", err)
	}
	defer func() { _ = rows.Close() }()
	out := make([]domain.JournalEntry, 0, 16)
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, readFailed("scan entry", err)
		}
		out = append(out, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailed("iterate entries", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// GetEntryByPage returns the entry at 1-indexed page n in date-descending
// order, or nil when n is out of range. Page 1 is the most recent entry; a
// page is exactly one entry. The sorted list is re-derived on every call.
func (e *Engine) GetEntryByPage(ctx context.Context, page int) (*domain.JournalEntry, error) {
	if page < 1 {
		return nil, nil
	}
	all, err := e.GetAllEntries(ctx)
	if err != nil {
		return nil, err
	}
	if page > len(all) {
		return nil, nil
	}
	entry := all[page-1]
	return &entry, nil
}

// GetTotalPages returns the number of pages, which equals the entry count.
func (e *Engine) GetTotalPages(ctx context.Context) (int, error) {
	var n int
	if err := e.db.QueryRowContext(ctx, countEntriesSQL).Scan(&n); err != nil {
		return 0, readFailed("count entries", err)
	}
	return n, nil
}

// DeleteEntry removes the entry and every image referencing it in one
// transaction, leaving no dangling image rows. Deleting an unknown id is a
// no-op, not an error.
func (e *Engine) DeleteEntry(ctx context.Context, id int64) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return writeFailed("begin delete entry", err)
	}
	if _, err := tx.ExecContext(ctx, deleteEntrySQL, id); err != nil {
		_ = tx.Rollback()
		return writeFailed("delete entry", err)
	}
	if _, err := tx.ExecContext(ctx, deleteEntryImagesSQL, id); err != nil {
		_ = tx.Rollback()
		return writeFailed("delete entry images", err)
	}
	if err := tx.Commit(); err != nil {
		return writeFailed("commit delete entry", err)
	}
	applog.WithComponent("storage").Debug("entry deleted", slog.Int64("id", id))
	return nil
}

// ExportAllData returns the raw, unfiltered snapshot of the entries and
// images collections for the export collaborators. No transformation beyond
// row decoding happens here.
func (e *Engine) ExportAllData(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	rows, err := e.db.QueryContext(ctx, selectAllEntriesSQL)
	if err != nil {
		return snap, readFailed("export entries", err)
	}
	snap.Entries = make([]domain.JournalEntry, 0, 16)
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			_ = rows.Close()
			return snap, readFailed("scan entry", err)
		}
		snap.Entries = append(snap.Entries, *entry)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return snap, readFailed("iterate entries", err)
	}
	if err := rows.Close(); err != nil {
		return snap, readFailed("close entries", err)
	}

	irows, err := e.db.QueryContext(ctx, selectAllImagesSQL)
	if err != nil {
		return snap, readFailed("export images", err)
	}
	defer func() { _ = irows.Close() }()
	imgs, err := scanImages(irows)
	if err != nil {
		return snap, err
	}
	snap.Images = imgs
	return snap, nil
}

// ClearAllEntries wipes the entries collection only. Images and the quote
// cache are untouched; callers wanting a full reset must know this is
// entry-scoped.
func (e *Engine) ClearAllEntries(ctx context.Context) error {
	if _, err := e.db.ExecContext(ctx, clearEntriesSQL); err != nil {
		return writeFailed("clear entries", err)
	}
	return nil
}

// scanEntry decodes one entries row via the given scan function, so it works
// for both QueryRow and Rows.
func scanEntry(scan func(dest ...any) error) (*domain.JournalEntry, error) {
	var (
		entry      domain.JournalEntry
		dateStr    string
		mood       sql.NullInt64
		emotions   string
		prayed     int
		quote      sql.NullString
		prompts    string
		reflection sql.NullString
	)
	if err := scan(&entry.ID, &dateStr, &mood, &emotions, &prayed, &quote, &prompts, &reflection); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		return nil, err
	}
	entry.Date = ts
	if mood.Valid {
		v := int(mood.Int64)
		entry.MoodRating = &v
	}
	if err := json.Unmarshal([]byte(emotions), &entry.Emotions); err != nil {
		return nil, err
	}
	entry.PrayedToday = prayed != 0
	entry.BibleQuote = quote.String
	if err := json.Unmarshal([]byte(prompts), &entry.Prompts); err != nil {
		return nil, err
	}
	entry.Reflection = reflection.String
	return &entry, nil
}

func scanImages(rows *sql.Rows) ([]domain.JournalImage, error) {
	out := make([]domain.JournalImage, 0, 4)
	for rows.Next() {
		var img domain.JournalImage
		if err := rows.Scan(&img.ID, &img.EntryID, &img.Data, &img.Type); err != nil {
			return nil, readFailed("scan image", err)
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, readFailed("iterate images", err)
	}
	return out, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
