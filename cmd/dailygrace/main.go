/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dailygrace/internal/config"
	"dailygrace/internal/crash"
	"dailygrace/internal/domain"
	"dailygrace/internal/export"
	applog "dailygrace/internal/log"
	"dailygrace/internal/storage"
	"dailygrace/internal/verses"
	"dailygrace/internal/version"
)

func usage() {
	fmt.Println("Daily Grace — daily reflection journal")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dailygrace version|-v|--version            Show version")
	fmt.Println("  dailygrace init [<dir>]                    Create (or open) the journal store")
	fmt.Println("  dailygrace today                           Show today's verse and reflection prompts")
	fmt.Println("  dailygrace save [flags] <reflection...>    Save today's entry")
	fmt.Println("      -mood N        mood rating 1..10")
	fmt.Println("      -emotions a,b  comma-separated emotions")
	fmt.Println("      -prayed        mark prayer done today")
	fmt.Println("      -image <file>  attach an image (repeatable)")
	fmt.Println("  dailygrace show <id>                       Print one entry by id")
	fmt.Println("  dailygrace page <n>                        Print the n-th entry, newest first (1-based)")
	fmt.Println("  dailygrace pages                           Print the number of entries")
	fmt.Println("  dailygrace delete <id>                     Delete an entry and its images")
	fmt.Println("  dailygrace export <json|text|html|pdf>     Write an export file")
	fmt.Println("  dailygrace import <file>                   Restore entries from a JSON export")
	fmt.Println("  dailygrace clear                           Delete all entries and their images")
	fmt.Println("  dailygrace theme <name>                    Persist the UI theme preference")
	fmt.Println()
	fmt.Printf("Journal root comes from the config file or %s.\n", config.EnvJournalRoot)
}

func main() {
	cfg, _ := config.Load()
	applog.Init(applog.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	l := applog.WithComponent("cli")

	root := cfg.Journal.Root
	defer func() { crash.Recover(root) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	ctx := context.Background()

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Daily Grace — daily reflection journal")
		fmt.Println(version.String())
		return

	case "init":
		if len(args) >= 3 {
			abs, _ := filepath.Abs(args[2])
			root = abs
		}
		l.Info("init journal", slog.String("root", root))
		eng, err := storage.Open(root)
		if err != nil {
			fail(l, "init failed", err)
		}
		defer closeEngine(l, eng)
		if cfg.Journal.Root != root {
			cfg.Journal.Root = root
			if err := config.Save(cfg); err != nil {
				l.Warn("could not persist journal root", slog.Any("err", err))
			}
		}
		fmt.Println("Journal ready at", storage.JournalPath(root))
		return

	case "today":
		eng := open(l, root)
		defer closeEngine(l, eng)
		p := providerFor(cfg, root)
		now := time.Now()
		// The quote cache is filled lazily: the first look on a new day picks
		// the verse and stores it, later calls read the stored one.
		quote, err := eng.GetBibleQuote(ctx, now)
		if err != nil {
			fail(l, "read quote failed", err)
		}
		if quote == "" {
			v := p.TodayVerse(now)
			quote = v.Text + " - " + v.Reference
			if err := eng.SaveBibleQuote(ctx, quote, now); err != nil {
				fail(l, "cache quote failed", err)
			}
		}
		text, ref := splitVerse(quote)
		fmt.Printf("%q\n", text)
		if ref != "" {
			fmt.Println("  —", ref)
		}
		fmt.Println()
		prompts, err := p.DailyPrompts(now, 3)
		if err != nil {
			fail(l, "prompts failed", err)
		}
		fmt.Println("Today's prompts:")
		for i, q := range prompts {
			fmt.Printf("  %d. %s\n", i+1, q)
		}
		return

	case "save":
		fs := flag.NewFlagSet("save", flag.ExitOnError)
		mood := fs.Int("mood", 0, "mood rating 1..10")
		emotions := fs.String("emotions", "", "comma-separated emotions")
		prayed := fs.Bool("prayed", false, "mark prayer done today")
		var imagePaths stringList
		fs.Var(&imagePaths, "image", "image file to attach (repeatable)")
		_ = fs.Parse(args[2:])
		reflection := strings.TrimSpace(strings.Join(fs.Args(), " "))

		eng := open(l, root)
		defer closeEngine(l, eng)

		now := time.Now()
		p := providerFor(cfg, root)
		v := p.TodayVerse(now)
		quote := v.Text + " - " + v.Reference

		entry := domain.JournalEntry{
			Date:        now,
			PrayedToday: *prayed,
			BibleQuote:  quote,
			Reflection:  reflection,
		}
		if *mood != 0 {
			entry.MoodRating = mood
		}
		if *emotions != "" {
			for _, e := range strings.Split(*emotions, ",") {
				if e = strings.TrimSpace(e); e != "" {
					entry.Emotions = append(entry.Emotions, e)
				}
			}
		}

		images, err := loadImages(imagePaths)
		if err != nil {
			fail(l, "read image", err)
		}

		id, err := eng.SaveEntry(ctx, entry, images)
		if err != nil {
			fail(l, "save failed", err)
		}
		if err := eng.SaveBibleQuote(ctx, quote, now); err != nil {
			fail(l, "save quote failed", err)
		}
		fmt.Printf("Saved entry %d for %s\n", id, domain.DateKeyFor(now))
		return

	case "show":
		id := parseID(args, 2, "show requires <id>")
		eng := open(l, root)
		defer closeEngine(l, eng)
		entry, err := eng.GetEntry(ctx, id)
		if err != nil {
			fail(l, "read failed", err)
		}
		if entry == nil {
			fmt.Println("No entry with id", id)
			return
		}
		printEntry(ctx, eng, entry)
		return

	case "page":
		if len(args) < 3 {
			fmt.Println("page requires <n>")
			usage()
			os.Exit(2)
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Println("page number must be an integer")
			os.Exit(2)
		}
		eng := open(l, root)
		defer closeEngine(l, eng)
		entry, err := eng.GetEntryByPage(ctx, n)
		if err != nil {
			fail(l, "read failed", err)
		}
		if entry == nil {
			fmt.Println("No entry on page", n)
			return
		}
		printEntry(ctx, eng, entry)
		return

	case "pages":
		eng := open(l, root)
		defer closeEngine(l, eng)
		n, err := eng.GetTotalPages(ctx)
		if err != nil {
			fail(l, "read failed", err)
		}
		fmt.Println(n)
		return

	case "delete":
		id := parseID(args, 2, "delete requires <id>")
		eng := open(l, root)
		defer closeEngine(l, eng)
		if err := eng.DeleteEntry(ctx, id); err != nil {
			fail(l, "delete failed", err)
		}
		fmt.Println("Deleted entry", id)
		return

	case "export":
		if len(args) < 3 {
			fmt.Println("export requires a format: json, text, html or pdf")
			usage()
			os.Exit(2)
		}
		eng := open(l, root)
		defer closeEngine(l, eng)
		path, err := export.New(eng).WriteFile(ctx, args[2], cfg.ExportDir())
		if err != nil {
			fail(l, "export failed", err)
		}
		fmt.Println("Exported to", path)
		return

	case "import":
		if len(args) < 3 {
			fmt.Println("import requires <file>")
			usage()
			os.Exit(2)
		}
		doc, err := export.ReadSnapshot(args[2])
		if err != nil {
			fail(l, "import rejected", err)
		}
		eng := open(l, root)
		defer closeEngine(l, eng)
		n, err := export.Restore(ctx, eng, doc)
		if err != nil {
			fail(l, "import failed", err)
		}
		fmt.Printf("Imported %d entries\n", n)
		return

	case "clear":
		eng := open(l, root)
		defer closeEngine(l, eng)
		if err := eng.ClearAllEntries(ctx); err != nil {
			fail(l, "clear failed", err)
		}
		fmt.Println("All entries deleted.")
		return

	case "theme":
		if len(args) < 3 {
			fmt.Println("theme requires a name:", strings.Join(config.Themes, ", "))
			os.Exit(2)
		}
		if !config.ValidTheme(args[2]) {
			fmt.Println("unknown theme; valid themes:", strings.Join(config.Themes, ", "))
			os.Exit(2)
		}
		cfg.General.Theme = strings.ToLower(args[2])
		if err := config.Save(cfg); err != nil {
			fail(l, "save config failed", err)
		}
		fmt.Println("Theme set to", cfg.General.Theme)
		return
	}

	usage()
}

// stringList collects repeatable -image flags.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

// splitVerse separates a cached "text - reference" quote.
func splitVerse(q string) (text, reference string) {
	if i := strings.LastIndex(q, " - "); i >= 0 {
		return strings.TrimSpace(q[:i]), strings.TrimSpace(q[i+3:])
	}
	return q, ""
}

func open(l *slog.Logger, root string) *storage.Engine {
	eng, err := storage.Open(root)
	if err != nil {
		fail(l, "open journal failed", err)
	}
	return eng
}

func closeEngine(l *slog.Logger, eng *storage.Engine) {
	if err := eng.Close(); err != nil {
		l.Error("close journal failed", slog.Any("err", err))
	}
}

func providerFor(cfg config.AppConfig, root string) *verses.Provider {
	p := verses.NewProvider(root)
	if cfg.Journal.VersesFile != "" {
		if corpus, err := verses.LoadCorpus(cfg.Journal.VersesFile); err == nil {
			p.UseCorpus(corpus)
		} else {
			applog.WithComponent("cli").Warn("verse corpus not loaded",
				slog.String("path", cfg.Journal.VersesFile), slog.Any("err", err))
		}
	}
	return p
}

func parseID(args []string, idx int, msg string) int64 {
	if len(args) <= idx {
		fmt.Println(msg)
		usage()
		os.Exit(2)
	}
	id, err := strconv.ParseInt(args[idx], 10, 64)
	if err != nil {
		fmt.Println("id must be an integer")
		os.Exit(2)
	}
	return id
}

func loadImages(paths []string) ([]domain.JournalImage, error) {
	imgs := make([]domain.JournalImage, 0, len(paths))
	for _, p := range paths {
		img, err := domain.ImageFromFile(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		imgs = append(imgs, img)
	}
	return imgs, nil
}

func printEntry(ctx context.Context, eng *storage.Engine, e *domain.JournalEntry) {
	fmt.Printf("Entry %d — %s\n", e.ID, e.Date.Format("Monday, January 2, 2006"))
	if e.BibleQuote != "" {
		fmt.Println("Verse:", e.BibleQuote)
	}
	if e.MoodRating != nil {
		fmt.Printf("Mood: %d/10\n", *e.MoodRating)
	}
	if len(e.Emotions) > 0 {
		fmt.Println("Emotions:", strings.Join(e.Emotions, ", "))
	}
	if e.PrayedToday {
		fmt.Println("Prayed today: yes")
	}
	for _, p := range e.Prompts {
		fmt.Println("Q:", p.Question)
		fmt.Println("A:", p.Answer)
	}
	if e.Reflection != "" {
		fmt.Println(e.Reflection)
	}
	if imgs, err := eng.GetEntryImages(ctx, e.ID); err == nil && len(imgs) > 0 {
		fmt.Printf("Images: %d attached\n", len(imgs))
	}
}
