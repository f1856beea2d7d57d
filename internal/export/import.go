/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"dailygrace/internal/domain"
	applog "dailygrace/internal/log"
)

// importSchema validates the shape of a JSON export before any row is
// written. Unknown extra fields are tolerated; missing required ones are not.
const importSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Daily Grace export",
  "type": "object",
  "required": ["appName", "exportDate", "entries"],
  "properties": {
    "appName": {"type": "string"},
    "exportId": {"type": "string"},
    "exportDate": {"type": "string"},
    "version": {"type": "string"},
    "entries": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["date"],
        "properties": {
          "date": {"type": "string", "format": "date-time"},
          "moodRating": {"type": ["integer", "null"], "minimum": 1, "maximum": 10},
          "emotions": {"type": "array", "items": {"type": "string"}},
          "prayedToday": {"type": "boolean"},
          "bibleQuote": {"type": ["string", "null"]},
          "prompts": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["question", "answer"],
              "properties": {
                "question": {"type": "string"},
                "answer": {"type": "string"}
              }
            }
          },
          "reflection": {"type": "string"},
          "images": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["data"],
              "properties": {
                "type": {"type": "string"},
                "data": {"type": "string", "pattern": "^data:image/"}
              }
            }
          }
        }
      }
    }
  }
}`

// Restorer is the slice of the engine the importer writes through.
type Restorer interface {
	SaveEntry(ctx context.Context, entry domain.JournalEntry, images []domain.JournalImage) (int64, error)
}

// ReadSnapshot validates the JSON export file at path against the export
// schema and parses it. Invalid files are rejected before any write happens.
func ReadSnapshot(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(importSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate import: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		first := "unknown"
		if len(errs) > 0 {
			first = errs[0].String()
		}
		return nil, fmt.Errorf("import file is not a valid export (%d problems, first: %s)", len(errs), first)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}
	return &doc, nil
}

// Restore replays a parsed export into the store. Entries are written oldest
// first so that insertion order matches chronology; store-assigned ids are
// fresh. Returns the number of entries written.
func Restore(ctx context.Context, r Restorer, doc *Document) (int, error) {
	l := applog.WithOperation(applog.WithComponent("export"), "restore")
	n := 0
	for i := len(doc.Entries) - 1; i >= 0; i-- {
		src := doc.Entries[i]
		entry := src.JournalEntry
		entry.ID = 0
		images := make([]domain.JournalImage, 0, len(src.Images))
		for _, img := range src.Images {
			images = append(images, domain.JournalImage{Type: img.Type, Data: img.Data})
		}
		if _, err := r.SaveEntry(ctx, entry, images); err != nil {
			return n, fmt.Errorf("restore entry dated %s: %w", domain.DateKeyFor(entry.Date), err)
		}
		n++
	}
	l.Info("journal restored", slog.Int("entries", n))
	return n, nil
}
