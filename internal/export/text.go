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
	"fmt"
	"strings"
)

// Text renders the journal as plain text, newest entry first.
func (x *Exporter) Text(ctx context.Context) ([]byte, error) {
	entries, err := x.r.GetAllEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect entries: %w", err)
	}
	b := &strings.Builder{}
	b.WriteString(strings.ToUpper(AppName) + "\n")
	b.WriteString("=======================\n\n")
	fmt.Fprintf(b, "Exported on: %s\n\n", x.now().Format("Jan 2, 2006 15:04"))

	for _, e := range entries {
		fmt.Fprintf(b, "## %s\n\n", formatEntryDate(e.Date))
		if e.BibleQuote != "" {
			text, ref := splitQuote(e.BibleQuote)
			fmt.Fprintf(b, "Today's Verse: %q\n", text)
			if ref != "" {
				fmt.Fprintf(b, "Reference: %s\n", ref)
			}
			b.WriteString("\n")
		}
		if e.MoodRating != nil {
			fmt.Fprintf(b, "Mood: %d/10\n", *e.MoodRating)
		}
		if len(e.Emotions) > 0 {
			fmt.Fprintf(b, "Emotions: %s\n", strings.Join(e.Emotions, ", "))
		}
		if e.PrayedToday {
			b.WriteString("Prayed today: yes\n")
		}
		if e.MoodRating != nil || len(e.Emotions) > 0 || e.PrayedToday {
			b.WriteString("\n")
		}
		for _, p := range e.Prompts {
			fmt.Fprintf(b, "Q: %s\n", p.Question)
			fmt.Fprintf(b, "A: %s\n\n", p.Answer)
		}
		if e.Reflection != "" {
			fmt.Fprintf(b, "%s\n\n", e.Reflection)
		}
		b.WriteString("----------------------------\n\n")
	}
	return []byte(b.String()), nil
}
