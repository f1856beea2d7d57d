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
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Layout constants, in points. Built-in Helvetica keeps text vector without
// font embedding.
const (
	pdfMargin    = 54.0 // 0.75in
	pdfBodySize  = 11.0
	pdfImageMaxW = 200.0
	pdfImageMaxH = 200.0
)

// PDF renders the journal as a multi-page PDF, newest entry first, one
// section per entry with its images embedded below the text.
func (x *Exporter) PDF(ctx context.Context) ([]byte, error) {
	doc, err := x.document(ctx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 612, Ht: 792}, // US Letter
	})
	pdf.SetTitle(AppName+" Export", false)
	pdf.SetAuthor(AppName, false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	textW := pageW - 2*pdfMargin

	// Title block
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(textW, 26, AppName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(textW, 12, "Exported on "+doc.ExportDate.Format("Jan 2, 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(10)

	for i, e := range doc.Entries {
		if i > 0 {
			pdf.Ln(8)
			pdf.SetDrawColor(200, 200, 200)
			yy := pdf.GetY()
			pdf.Line(pdfMargin, yy, pageW-pdfMargin, yy)
			pdf.Ln(10)
		}

		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(66, 133, 244)
		pdf.MultiCell(textW, 18, formatEntryDate(e.Date), "", "L", false)
		pdf.SetTextColor(0, 0, 0)

		if e.BibleQuote != "" {
			text, ref := splitQuote(e.BibleQuote)
			pdf.SetFont("Helvetica", "I", pdfBodySize)
			pdf.MultiCell(textW, 14, fmt.Sprintf("%q", text), "", "L", false)
			if ref != "" {
				pdf.SetFont("Helvetica", "B", 9)
				pdf.MultiCell(textW, 12, ref, "", "R", false)
			}
			pdf.Ln(4)
		}

		var meta []string
		if e.MoodRating != nil {
			meta = append(meta, fmt.Sprintf("Mood: %d/10", *e.MoodRating))
		}
		if len(e.Emotions) > 0 {
			meta = append(meta, "Emotions: "+strings.Join(e.Emotions, ", "))
		}
		if e.PrayedToday {
			meta = append(meta, "Prayed today")
		}
		if len(meta) > 0 {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(90, 90, 90)
			pdf.MultiCell(textW, 12, strings.Join(meta, "  |  "), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
			pdf.Ln(4)
		}

		for _, p := range e.Prompts {
			pdf.SetFont("Helvetica", "B", pdfBodySize)
			pdf.MultiCell(textW, 14, p.Question, "", "L", false)
			pdf.SetFont("Helvetica", "", pdfBodySize)
			pdf.MultiCell(textW, 14, p.Answer, "", "L", false)
			pdf.Ln(4)
		}

		if e.Reflection != "" {
			pdf.SetFont("Helvetica", "", pdfBodySize)
			pdf.MultiCell(textW, 14, e.Reflection, "", "L", false)
			pdf.Ln(4)
		}

		for j, img := range e.Images {
			dec, derr := prepareImage(img.Data)
			if derr != nil {
				// A corrupt attachment should not sink the whole export.
				pdf.SetFont("Helvetica", "I", 8)
				pdf.MultiCell(textW, 10, "[image could not be embedded]", "", "L", false)
				continue
			}
			name := fmt.Sprintf("entry-%d-img-%d", e.ID, j)
			pdf.RegisterImageOptionsReader(name,
				gofpdf.ImageOptions{ImageType: dec.Kind}, bytes.NewReader(dec.Data))
			w := float64(dec.W)
			h := float64(dec.H)
			scale := 1.0
			if w > pdfImageMaxW {
				scale = pdfImageMaxW / w
			}
			if h*scale > pdfImageMaxH {
				scale = pdfImageMaxH / h
			}
			pdf.ImageOptions(name, pdfMargin, pdf.GetY()+4, w*scale, h*scale, true,
				gofpdf.ImageOptions{ImageType: dec.Kind}, 0, "")
			pdf.Ln(6)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
