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
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"dailygrace/internal/domain"
)

// TrackingFileName stores the prompts already drawn for a given day, so the
// same questions show across app restarts until the day changes.
const TrackingFileName = "prompts.json"

// reflectionPrompts by category; one prompt is drawn per selected category.
var reflectionPrompts = map[string][]string{
	"gratitude": {
		"What are you grateful for today?",
		"Who made a positive impact on your day?",
		"What simple pleasure brought you joy today?",
		"What challenge are you thankful for overcoming?",
		"What beauty did you notice in the world today?",
	},
	"growth": {
		"What did you learn about yourself today?",
		"What skill did you practice or improve?",
		"What mistake taught you something valuable?",
		"What would you do differently if you could relive today?",
		"What progress did you make toward your goals?",
	},
	"relationships": {
		"How did you show kindness to others today?",
		"What meaningful conversation did you have?",
		"How did you strengthen a relationship today?",
		"What did you learn from someone else today?",
		"How did you handle a difficult interaction?",
	},
	"emotions": {
		"What made you feel most alive today?",
		"What emotion was strongest today and why?",
		"How did you manage stress or anxiety today?",
		"What brought you peace today?",
		"What made you smile or laugh today?",
	},
	"future": {
		"What are you looking forward to tomorrow?",
		"What goal would you like to work on?",
		"What dream or aspiration was on your mind today?",
		"What small step can you take tomorrow toward your dreams?",
		"What would make tomorrow even better than today?",
	},
}

// Provider hands out the verse of the day and the day's reflection prompts.
type Provider struct {
	verses    []domain.Verse
	trackPath string
	rnd       *rand.Rand
}

type tracking struct {
	LastUsed map[string][]string `json:"lastUsed"`
}

// NewProvider builds a provider with the built-in corpus, keeping its prompt
// tracking file under root.
func NewProvider(root string) *Provider {
	return &Provider{
		verses:    defaultVerses,
		trackPath: filepath.Join(root, TrackingFileName),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// UseCorpus replaces the verse corpus, e.g. with one loaded via LoadCorpus.
func (p *Provider) UseCorpus(vs []domain.Verse) {
	if len(vs) > 0 {
		p.verses = vs
	}
}

// TodayVerse returns the verse for the calendar day of t. Selection cycles
// through the corpus by day of year, so the verse is stable for the whole
// day and across restarts.
func (p *Provider) TodayVerse(t time.Time) domain.Verse {
	return p.verses[(t.YearDay()-1)%len(p.verses)]
}

// DailyPrompts returns count reflection prompts for the day of t. The first
// draw picks one prompt from each of count randomly chosen categories and
// pins the selection in the tracking file; later calls on the same day
// return the pinned set.
func (p *Provider) DailyPrompts(t time.Time, count int) ([]string, error) {
	key := domain.DateKeyFor(t)
	tr := p.loadTracking()
	if got, ok := tr.LastUsed[key]; ok && len(got) > 0 {
		return got, nil
	}
	picked := p.draw(count)
	// Only today's pin is kept; stale days age out.
	tr.LastUsed = map[string][]string{key: picked}
	if err := p.saveTracking(tr); err != nil {
		return nil, err
	}
	return picked, nil
}

// FreshPrompts discards the day's pinned prompts and draws a new set.
func (p *Provider) FreshPrompts(t time.Time, count int) ([]string, error) {
	tr := p.loadTracking()
	delete(tr.LastUsed, domain.DateKeyFor(t))
	if err := p.saveTracking(tr); err != nil {
		return nil, err
	}
	return p.DailyPrompts(t, count)
}

func (p *Provider) draw(count int) []string {
	cats := make([]string, 0, len(reflectionPrompts))
	for c := range reflectionPrompts {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	p.rnd.Shuffle(len(cats), func(i, j int) { cats[i], cats[j] = cats[j], cats[i] })
	if count > len(cats) {
		count = len(cats)
	}
	out := make([]string, 0, count)
	for _, c := range cats[:count] {
		qs := reflectionPrompts[c]
		out = append(out, qs[p.rnd.Intn(len(qs))])
	}
	return out
}

func (p *Provider) loadTracking() tracking {
	tr := tracking{LastUsed: map[string][]string{}}
	data, err := os.ReadFile(p.trackPath)
	if err != nil {
		return tr
	}
	if err := json.Unmarshal(data, &tr); err != nil || tr.LastUsed == nil {
		tr.LastUsed = map[string][]string{}
	}
	return tr
}

func (p *Provider) saveTracking(tr tracking) error {
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.trackPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.trackPath, data, 0o644)
}
