/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package verses provides the daily scripture verse and the rotating
// reflection prompts. Verse selection is deterministic per calendar day so
// the same verse shows all day; prompt selection is random but pinned for
// the day once drawn.
package verses

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dailygrace/internal/domain"
)

// defaultVerses is the built-in corpus. A user corpus can replace it via
// LoadCorpus (config journal.verses_file).
var defaultVerses = []domain.Verse{
	{Text: "For I know the plans I have for you, declares the LORD, plans for welfare and not for evil, to give you a future and a hope.", Reference: "Jeremiah 29:11"},
	{Text: "Trust in the LORD with all your heart, and do not lean on your own understanding. In all your ways acknowledge him, and he will make straight your paths.", Reference: "Proverbs 3:5-6"},
	{Text: "I can do all things through him who strengthens me.", Reference: "Philippians 4:13"},
	{Text: "Be strong and courageous. Do not fear or be in dread of them, for it is the LORD your God who goes with you. He will not leave you or forsake you.", Reference: "Deuteronomy 31:6"},
	{Text: "The LORD is my shepherd; I shall not want.", Reference: "Psalm 23:1"},
	{Text: "And we know that for those who love God all things work together for good, for those who are called according to his purpose.", Reference: "Romans 8:28"},
	{Text: "But they who wait for the LORD shall renew their strength; they shall mount up with wings like eagles; they shall run and not be weary; they shall walk and not faint.", Reference: "Isaiah 40:31"},
	{Text: "For God so loved the world, that he gave his only Son, that whoever believes in him should not perish but have eternal life.", Reference: "John 3:16"},
	{Text: "Do not be anxious about anything, but in everything by prayer and supplication with thanksgiving let your requests be made known to God.", Reference: "Philippians 4:6"},
	{Text: "The LORD is my light and my salvation; whom shall I fear? The LORD is the stronghold of my life; of whom shall I be afraid?", Reference: "Psalm 27:1"},
	{Text: "Come to me, all who labor and are heavy laden, and I will give you rest.", Reference: "Matthew 11:28"},
	{Text: "Be kind to one another, tenderhearted, forgiving one another, as God in Christ forgave you.", Reference: "Ephesians 4:32"},
	{Text: "Let all that you do be done in love.", Reference: "1 Corinthians 16:14"},
	{Text: "Rejoice always, pray without ceasing, give thanks in all circumstances; for this is the will of God in Christ Jesus for you.", Reference: "1 Thessalonians 5:16-18"},
	{Text: "The steadfast love of the LORD never ceases; his mercies never come to an end; they are new every morning; great is your faithfulness.", Reference: "Lamentations 3:22-23"},
	{Text: "And let us not grow weary of doing good, for in due season we will reap, if we do not give up.", Reference: "Galatians 6:9"},
	{Text: "Fear not, for I am with you; be not dismayed, for I am your God; I will strengthen you, I will help you, I will uphold you with my righteous right hand.", Reference: "Isaiah 41:10"},
	{Text: "But the fruit of the Spirit is love, joy, peace, patience, kindness, goodness, faithfulness, gentleness, self-control; against such things there is no law.", Reference: "Galatians 5:22-23"},
	{Text: "The LORD bless you and keep you; the LORD make his face to shine upon you and be gracious to you; the LORD lift up his countenance upon you and give you peace.", Reference: "Numbers 6:24-26"},
	{Text: "Finally, brothers, whatever is true, whatever is honorable, whatever is just, whatever is pure, whatever is lovely, whatever is commendable, if there is any excellence, if there is anything worthy of praise, think about these things.", Reference: "Philippians 4:8"},
}

// LoadCorpus reads a verse corpus from a YAML file of the form:
//
//	verses:
//	  - text: "..."
//	    reference: "..."
//
// An empty corpus is rejected so the provider never runs dry.
func LoadCorpus(path string) ([]domain.Verse, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read verse corpus: %w", err)
	}
	var doc struct {
		Verses []domain.Verse `yaml:"verses"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse verse corpus: %w", err)
	}
	if len(doc.Verses) == 0 {
		return nil, fmt.Errorf("verse corpus %s contains no verses", path)
	}
	return doc.Verses, nil
}
