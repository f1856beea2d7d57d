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
	"time"

	"github.com/google/uuid"

	"dailygrace/internal/domain"
	"dailygrace/internal/version"
)

// Document is the top-level JSON export structure. Entries carry their
// images inline so a single file round-trips the whole journal.
type Document struct {
	AppName    string            `json:"appName"`
	ExportID   string            `json:"exportId"`
	ExportDate time.Time         `json:"exportDate"`
	Version    string            `json:"version"`
	Entries    []EntryWithImages `json:"entries"`
}

// EntryWithImages is a journal entry with its attachments inlined.
type EntryWithImages struct {
	domain.JournalEntry
	Images []InlineImage `json:"images"`
}

// InlineImage strips the store-assigned ids from an attachment; exports are
// self-contained and ids are reassigned on import.
type InlineImage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// JSON renders the journal as a pretty-printed JSON document, newest entry
// first, each entry with its images inlined.
func (x *Exporter) JSON(ctx context.Context) ([]byte, error) {
	doc, err := x.document(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

func (x *Exporter) document(ctx context.Context) (*Document, error) {
	entries, err := x.r.GetAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect entries: %w", err)
	}
	doc := &Document{
		AppName:    AppName,
		ExportID:   uuid.NewString(),
		ExportDate: x.now(),
		Version:    version.String(),
		Entries:    make([]EntryWithImages, 0, len(entries)),
	}
	for _, e := range entries {
		imgs, err := x.r.GetEntryImages(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("collect images for entry %d: %w", e.ID, err)
		}
		inline := make([]InlineImage, 0, len(imgs))
		for _, img := range imgs {
			inline = append(inline, InlineImage{Type: img.Type, Data: img.Data})
		}
		doc.Entries = append(doc.Entries, EntryWithImages{JournalEntry: e, Images: inline})
	}
	return doc, nil
}
