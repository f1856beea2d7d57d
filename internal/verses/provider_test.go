/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package verses

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dailygrace/internal/domain"
)

func TestTodayVerseIsStableForTheDay(t *testing.T) {
	p := NewProvider(t.TempDir())
	day := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	morning := p.TodayVerse(day.Add(7 * time.Hour))
	evening := p.TodayVerse(day.Add(22 * time.Hour))
	if morning != evening {
		t.Fatalf("verse must not change within a day")
	}
}

func TestTodayVerseCyclesByDayOfYear(t *testing.T) {
	p := NewProvider(t.TempDir())
	jan1 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if got := p.TodayVerse(jan1); got != defaultVerses[0] {
		t.Fatalf("day 1 must map to the first verse, got %q", got.Reference)
	}
	// Day N+len wraps back around.
	wrap := jan1.AddDate(0, 0, len(defaultVerses))
	if got := p.TodayVerse(wrap); got != defaultVerses[0] {
		t.Fatalf("corpus must cycle, got %q", got.Reference)
	}
	if p.TodayVerse(jan1.AddDate(0, 0, 1)) == p.TodayVerse(jan1) {
		t.Fatalf("consecutive days should rotate the verse")
	}
}

func TestDailyPromptsArePinnedForTheDay(t *testing.T) {
	root := t.TempDir()
	p := NewProvider(root)
	day := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

	first, err := p.DailyPrompts(day, 3)
	if err != nil {
		t.Fatalf("DailyPrompts error: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 prompts, got %d", len(first))
	}

	// A later call the same day, even from a fresh provider, returns the
	// pinned set.
	again, err := NewProvider(root).DailyPrompts(day.Add(10*time.Hour), 3)
	if err != nil {
		t.Fatalf("DailyPrompts (pinned) error: %v", err)
	}
	if len(again) != len(first) {
		t.Fatalf("pinned set size changed")
	}
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("pinned prompts differ at %d: %q vs %q", i, first[i], again[i])
		}
	}

	if _, err := os.Stat(filepath.Join(root, TrackingFileName)); err != nil {
		t.Fatalf("tracking file missing: %v", err)
	}
}

func TestDailyPromptsNewDayReplacesPin(t *testing.T) {
	root := t.TempDir()
	p := NewProvider(root)
	day1 := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	if _, err := p.DailyPrompts(day1, 3); err != nil {
		t.Fatalf("day1: %v", err)
	}
	if _, err := p.DailyPrompts(day2, 3); err != nil {
		t.Fatalf("day2: %v", err)
	}
	// Only the newest day's pin survives.
	tr := p.loadTracking()
	if len(tr.LastUsed) != 1 {
		t.Fatalf("expected 1 pinned day, got %d", len(tr.LastUsed))
	}
	if _, ok := tr.LastUsed[domain.DateKeyFor(day2)]; !ok {
		t.Fatalf("newest day not pinned: %v", tr.LastUsed)
	}
}

func TestFreshPromptsRedraws(t *testing.T) {
	p := NewProvider(t.TempDir())
	day := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)

	if _, err := p.DailyPrompts(day, 3); err != nil {
		t.Fatalf("DailyPrompts: %v", err)
	}
	fresh, err := p.FreshPrompts(day, 3)
	if err != nil {
		t.Fatalf("FreshPrompts: %v", err)
	}
	if len(fresh) != 3 {
		t.Fatalf("expected 3 prompts after redraw, got %d", len(fresh))
	}
	// The redraw is the new pin.
	again, _ := p.DailyPrompts(day, 3)
	for i := range fresh {
		if fresh[i] != again[i] {
			t.Fatalf("redraw was not pinned")
		}
	}
}

func TestDrawPicksOnePromptPerCategory(t *testing.T) {
	p := NewProvider(t.TempDir())
	got := p.draw(len(reflectionPrompts))
	if len(got) != len(reflectionPrompts) {
		t.Fatalf("expected %d prompts, got %d", len(reflectionPrompts), len(got))
	}
	// Each prompt must belong to a distinct category.
	used := map[string]bool{}
	for _, q := range got {
		var home string
		for cat, qs := range reflectionPrompts {
			for _, cq := range qs {
				if cq == q {
					home = cat
				}
			}
		}
		if home == "" {
			t.Fatalf("prompt %q not in any category", q)
		}
		if used[home] {
			t.Fatalf("category %q used twice", home)
		}
		used[home] = true
	}
}

func TestLoadCorpusAndOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verses.yaml")
	yml := "verses:\n  - text: \"Test verse one.\"\n    reference: \"Test 1:1\"\n  - text: \"Test verse two.\"\n    reference: \"Test 1:2\"\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	corpus, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus error: %v", err)
	}
	if len(corpus) != 2 || corpus[0].Reference != "Test 1:1" {
		t.Fatalf("corpus mismatch: %v", corpus)
	}

	p := NewProvider(dir)
	p.UseCorpus(corpus)
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := p.TodayVerse(jan1); got.Reference != "Test 1:1" {
		t.Fatalf("override corpus not used: %q", got.Reference)
	}
}

func TestLoadCorpusRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("verses: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCorpus(path); err == nil {
		t.Fatalf("empty corpus must be rejected")
	}
}
