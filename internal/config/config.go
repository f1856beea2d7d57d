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
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in
// the user scope. Environment variables are read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible
// way. Unknown fields are ignored on unmarshal.

// Themes accepted by the UI layer. Informational for the engine; the CLI
// only persists the preference.
var Themes = []string{"light", "dark", "pink", "orange"}

type JournalConfig struct {
	Root       string `yaml:"root"`        // directory holding journal.sqlite and subfolders
	ExportDir  string `yaml:"export_dir"`  // where export files land; empty means <root>/exports
	VersesFile string `yaml:"verses_file"` // optional YAML verse corpus override
}

type GeneralConfig struct {
	Theme string `yaml:"theme"` // "light" | "dark" | "pink" | "orange"
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Journal       JournalConfig `yaml:"journal"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults. The journal root lives next to
// the config file in the user scope.
func Defaults() AppConfig {
	root := ""
	if base, err := baseDir(); err == nil {
		root = filepath.Join(base, "journal")
	}
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "light"},
		Journal:       JournalConfig{Root: root},
		Logging:       LoggingConfig{Level: "info", Format: "console", File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvJournalRoot = "DG_JOURNAL_ROOT"
	EnvExportDir   = "DG_EXPORT_DIR"
	EnvVersesFile  = "DG_VERSES_FILE"
	EnvTheme       = "DG_THEME"
	EnvLogLevel    = "DG_LOG_LEVEL"
	EnvLogFormat   = "DG_LOG_FORMAT"
	EnvLogFile     = "DG_LOG_FILE"
)

func baseDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "DailyGrace")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "DailyGrace")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "dailygrace")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	base, err := baseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ExportDir resolves the effective export directory for the given config.
func (c AppConfig) ExportDir() string {
	if strings.TrimSpace(c.Journal.ExportDir) != "" {
		return c.Journal.ExportDir
	}
	return filepath.Join(c.Journal.Root, "exports")
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if v := strings.TrimSpace(src.General.Theme); v != "" {
		dst.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Journal.Root); v != "" {
		dst.Journal.Root = v
	}
	if v := strings.TrimSpace(src.Journal.ExportDir); v != "" {
		dst.Journal.ExportDir = v
	}
	if v := strings.TrimSpace(src.Journal.VersesFile); v != "" {
		dst.Journal.VersesFile = v
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvJournalRoot)); v != "" {
		cfg.Journal.Root = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Journal.ExportDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvVersesFile)); v != "" {
		cfg.Journal.VersesFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// ValidTheme reports whether the given theme name is one the UI knows.
func ValidTheme(name string) bool {
	for _, t := range Themes {
		if t == strings.ToLower(strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
