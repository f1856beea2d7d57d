/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export renders the journal into the supported hand-off formats
// (JSON, plain text, HTML, PDF) and restores journals from validated JSON
// exports. It consumes the persistence engine's read API only.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dailygrace/internal/domain"
	applog "dailygrace/internal/log"
)

// AppName appears in export headers and metadata.
const AppName = "Daily Grace"

// Reader is the slice of the engine the exporters need.
type Reader interface {
	GetAllEntries(ctx context.Context) ([]domain.JournalEntry, error)
	GetEntryImages(ctx context.Context, entryID int64) ([]domain.JournalImage, error)
}

// Exporter renders journal exports from a Reader.
type Exporter struct {
	r   Reader
	now func() time.Time
}

// New builds an Exporter over the given read API.
func New(r Reader) *Exporter {
	return &Exporter{r: r, now: time.Now}
}

// Formats supported by WriteFile.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

var formatExt = map[string]string{
	FormatJSON: ".json",
	FormatText: ".txt",
	FormatHTML: ".html",
	FormatPDF:  ".pdf",
}

// FileName returns the export file name for the given format and day,
// e.g. daily-grace_2024-03-01.json.
func FileName(format string, t time.Time) (string, error) {
	ext, ok := formatExt[strings.ToLower(format)]
	if !ok {
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	return fmt.Sprintf("daily-grace_%s%s", domain.DateKeyFor(t), ext), nil
}

// WriteFile renders the journal in the given format into dir and returns the
// written path.
func (x *Exporter) WriteFile(ctx context.Context, format, dir string) (string, error) {
	l := applog.WithOperation(applog.WithComponent("export"), "write_file").With(
		slog.String("format", format),
	)
	name, err := FileName(format, x.now())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure export dir: %w", err)
	}
	path := filepath.Join(dir, name)

	var data []byte
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err = x.JSON(ctx)
	case FormatText:
		data, err = x.Text(ctx)
	case FormatHTML:
		data, err = x.HTML(ctx)
	case FormatPDF:
		data, err = x.PDF(ctx)
	}
	if err != nil {
		l.Error("render failed", slog.Any("err", err))
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	l.Info("export written", slog.String("path", path), slog.Int("bytes", len(data)))
	return path, nil
}

// splitQuote separates a stored "text - reference" quote into its parts.
// Entries save the quote as one string; the reference rides behind " - ".
func splitQuote(q string) (text, reference string) {
	if i := strings.LastIndex(q, " - "); i >= 0 {
		return strings.TrimSpace(q[:i]), strings.TrimSpace(q[i+3:])
	}
	return q, ""
}

// formatEntryDate renders the long-form date heading used by the text and
// HTML exports.
func formatEntryDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}
