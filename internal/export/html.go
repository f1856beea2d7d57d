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
	"bytes"
	"context"
	"fmt"
	"html/template"

	"dailygrace/internal/domain"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.AppName}} - Export</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 20px; color: #333; }
        h1 { color: #4285f4; text-align: center; border-bottom: 2px solid #4285f4; padding-bottom: 10px; }
        .entry { margin-bottom: 30px; border: 1px solid #ddd; padding: 20px; border-radius: 8px; background-color: #f9f9f9; }
        .entry-date { font-size: 1.2em; color: #4285f4; margin-top: 0; }
        .verse { background-color: #e8f0fe; padding: 15px; border-left: 3px solid #4285f4; margin: 15px 0; font-style: italic; }
        .reference { text-align: right; font-weight: bold; }
        .mood { margin: 10px 0; }
        .prompt { margin-bottom: 15px; }
        .question { font-weight: bold; color: #4285f4; }
        .answer { margin-left: 20px; white-space: pre-wrap; }
        .images { display: flex; flex-wrap: wrap; gap: 10px; margin-top: 15px; }
        .images img { max-width: 200px; max-height: 200px; border: 1px solid #ddd; border-radius: 4px; }
        .export-info { text-align: center; font-size: 0.8em; color: #666; margin-top: 30px; }
    </style>
</head>
<body>
    <h1>{{.AppName}}</h1>
{{range .Entries}}    <div class="entry">
        <h2 class="entry-date">{{.DateText}}</h2>
{{if .QuoteText}}        <div class="verse">
            <p>{{.QuoteText}}</p>
{{if .QuoteRef}}            <p class="reference">{{.QuoteRef}}</p>
{{end}}        </div>
{{end}}{{if .Mood}}        <div class="mood">{{.Mood}}</div>
{{end}}        <div class="prompts">
{{range .Prompts}}            <div class="prompt">
                <p class="question">{{.Question}}</p>
                <p class="answer">{{.Answer}}</p>
            </div>
{{end}}        </div>
{{if .Reflection}}        <p class="answer">{{.Reflection}}</p>
{{end}}{{if .Images}}        <div class="images">
{{range .Images}}            <img src="{{.}}" alt="Journal image">
{{end}}        </div>
{{end}}    </div>
{{end}}    <div class="export-info">
        <p>Exported on: {{.ExportedAt}}</p>
        <p>{{.AppName}} {{.Version}}</p>
    </div>
</body>
</html>
`

type htmlEntry struct {
	DateText   string
	QuoteText  string
	QuoteRef   string
	Mood       string
	Prompts    []domain.PromptAnswer
	Reflection string
	Images     []template.URL
}

type htmlDoc struct {
	AppName    string
	ExportedAt string
	Version    string
	Entries    []htmlEntry
}

var htmlTmpl = template.Must(template.New("export").Parse(htmlTemplate))

// HTML renders the journal as a standalone HTML document with images
// embedded as data URLs.
func (x *Exporter) HTML(ctx context.Context) ([]byte, error) {
	doc, err := x.document(ctx)
	if err != nil {
		return nil, err
	}
	out := htmlDoc{
		AppName:    AppName,
		ExportedAt: doc.ExportDate.Format("Jan 2, 2006 15:04"),
		Version:    doc.Version,
	}
	for _, e := range doc.Entries {
		he := htmlEntry{
			DateText:   formatEntryDate(e.Date),
			Prompts:    e.Prompts,
			Reflection: e.Reflection,
		}
		if e.BibleQuote != "" {
			he.QuoteText, he.QuoteRef = splitQuote(e.BibleQuote)
		}
		if e.MoodRating != nil {
			he.Mood = fmt.Sprintf("Mood: %d/10", *e.MoodRating)
		}
		for _, img := range e.Images {
			// Data URLs are produced by the app itself; mark them safe for
			// the src attribute.
			he.Images = append(he.Images, template.URL(img.Data))
		}
		out.Entries = append(out.Entries, he)
	}
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, out); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
