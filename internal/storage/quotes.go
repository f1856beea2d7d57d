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
	"time"

	"dailygrace/internal/domain"
)

// language=SQL
// dialect=SQLite
const upsertQuoteSQL = `INSERT INTO quotes(date, quote) VALUES (?, ?)
	ON CONFLICT(date) DO UPDATE SET quote=excluded.quote`

// language=SQL
// dialect=SQLite
const selectQuoteSQL = `SELECT quote FROM quotes WHERE date = ?`

// SaveBibleQuote upserts the cached quote for the calendar day of date. The
// time-of-day component is discarded before the key comparison, so a second
// save on the same day overwrites the first; the cache never holds two
// quotes for one date.
func (e *Engine) SaveBibleQuote(ctx context.Context, quote string, date time.Time) error {
	if _, err := e.db.ExecContext(ctx, upsertQuoteSQL, domain.DateKeyFor(date), quote); err != nil {
		return writeFailed("save quote", err)
	}
	return nil
}

// GetBibleQuote returns the cached quote for the calendar day of date, or the
// empty string when no quote is cached yet. Callers use the empty result to
// decide whether to pick a fresh verse for the day.
func (e *Engine) GetBibleQuote(ctx context.Context, date time.Time) (string, error) {
	var quote string
	err := e.db.QueryRowContext(ctx, selectQuoteSQL, domain.DateKeyFor(date)).Scan(&quote)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", readFailed("get quote", err)
	}
	return quote, nil
}
