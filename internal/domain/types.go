/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for the Daily Grace journal.
// JSON field names match the persisted record shapes so that exports stay
// readable by earlier versions of the app.

import "time"

// JournalEntry is one day's journal record. Entries are immutable once saved;
// there is no edit operation, only save and delete.
type JournalEntry struct {
	ID          int64          `json:"id"`
	Date        time.Time      `json:"date"`
	MoodRating  *int           `json:"moodRating,omitempty"` // 1..10 when present
	Emotions    []string       `json:"emotions"`
	PrayedToday bool           `json:"prayedToday"`
	BibleQuote  string         `json:"bibleQuote,omitempty"`
	Prompts     []PromptAnswer `json:"prompts"`
	Reflection  string         `json:"reflection,omitempty"`
}

// PromptAnswer is one reflection prompt and the user's answer. Answer may be
// empty; order within an entry is significant.
type PromptAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// JournalImage is a binary attachment owned by exactly one entry.
// Data holds the image bytes as a base64 data URL, Type the MIME type.
type JournalImage struct {
	ID      int64  `json:"id"`
	EntryID int64  `json:"entryId"`
	Data    string `json:"data"`
	Type    string `json:"type"`
}

// DailyQuote is the date-keyed cached verse shown once per day.
// DateKey has calendar-day granularity (YYYY-MM-DD).
type DailyQuote struct {
	DateKey string `json:"date"`
	Quote   string `json:"quote"`
}

// Snapshot is the raw, unfiltered dump handed to the export collaborators.
type Snapshot struct {
	Entries []JournalEntry `json:"entries"`
	Images  []JournalImage `json:"images"`
}

// Verse is a scripture quote with its reference.
type Verse struct {
	Text      string `json:"text" yaml:"text"`
	Reference string `json:"reference" yaml:"reference"`
}

// Normalize fills defaults for fields the caller may have left unset, rather
// than rejecting incomplete input: zero Date becomes now, nil collections
// become empty, and a mood rating outside 1..10 is treated as not rated.
func (e *JournalEntry) Normalize(now time.Time) {
	if e.Date.IsZero() {
		e.Date = now
	}
	if e.Emotions == nil {
		e.Emotions = []string{}
	}
	if e.Prompts == nil {
		e.Prompts = []PromptAnswer{}
	}
	if e.MoodRating != nil && (*e.MoodRating < 1 || *e.MoodRating > 10) {
		e.MoodRating = nil
	}
}

// DateKeyFor truncates a timestamp to its wall-clock calendar date, the key
// granularity of the daily quote cache. No timezone conversion happens here;
// the day is whatever the caller's clock said it was.
func DateKeyFor(t time.Time) string {
	return t.Format("2006-01-02")
}
