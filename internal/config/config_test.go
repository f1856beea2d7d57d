/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnvOverridesJournalRoot(t *testing.T) {
	old := os.Getenv(EnvJournalRoot)
	_ = os.Setenv(EnvJournalRoot, "/tmp/override-journal")
	t.Cleanup(func() { _ = os.Setenv(EnvJournalRoot, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Journal.Root, "/tmp/override-journal"; got != want {
		t.Fatalf("Journal.Root = %q, want %q", got, want)
	}
}

func TestEnvOverridesTheme(t *testing.T) {
	old := os.Getenv(EnvTheme)
	_ = os.Setenv(EnvTheme, "DARK")
	t.Cleanup(func() { _ = os.Setenv(EnvTheme, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.General.Theme != "dark" {
		t.Fatalf("Theme = %q, want lowercased env value", cfg.General.Theme)
	}
}

func TestMergeKeepsDefaultsForEmptyFields(t *testing.T) {
	dst := Defaults()
	src := AppConfig{} // empty file config must not blank out defaults
	mergeInto(&dst, &src)
	if dst.General.Theme != "light" {
		t.Fatalf("Theme default lost: %q", dst.General.Theme)
	}
	if dst.Logging.Level != "info" {
		t.Fatalf("Logging.Level default lost: %q", dst.Logging.Level)
	}
}

func TestMergeIncludesJournalAndLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Journal.Root = "/data/journal"
	src.Journal.VersesFile = "/data/verses.yaml"
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	mergeInto(&dst, &src)
	if dst.Journal.Root != "/data/journal" || dst.Journal.VersesFile != "/data/verses.yaml" {
		t.Fatalf("journal fields not merged: %+v", dst.Journal)
	}
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" {
		t.Fatalf("logging fields not merged: %+v", dst.Logging)
	}
}

func TestExportDirFallsBackToRoot(t *testing.T) {
	cfg := Defaults()
	cfg.Journal.Root = "/data/journal"
	cfg.Journal.ExportDir = ""
	if got, want := cfg.ExportDir(), filepath.Join("/data/journal", "exports"); got != want {
		t.Fatalf("ExportDir() = %q, want %q", got, want)
	}
	cfg.Journal.ExportDir = "/exports/elsewhere"
	if cfg.ExportDir() != "/exports/elsewhere" {
		t.Fatalf("explicit export dir ignored")
	}
}

func TestValidTheme(t *testing.T) {
	for _, name := range Themes {
		if !ValidTheme(name) {
			t.Fatalf("built-in theme %q rejected", name)
		}
	}
	if !ValidTheme(" Pink ") {
		t.Fatalf("theme match should be case/space insensitive")
	}
	if ValidTheme("neon") {
		t.Fatalf("unknown theme accepted")
	}
}
