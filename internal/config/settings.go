// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Environment overrides.
const (
	EnvConfigPath    = "UIHELPER_CONFIG"
	EnvGFxExportBin  = "UIHELPER_GFXEXPORT_BIN"
	EnvExportArgs    = "UIHELPER_EXPORT_ARGS"
	EnvExportTimeout = "UIHELPER_EXPORT_TIMEOUT"
	EnvLogLevel      = "UIHELPER_LOG_LEVEL"
	EnvAtomicWrites  = "UIHELPER_ATOMIC_WRITES"
	EnvRequireAS3    = "UIHELPER_REQUIRE_AS3"
)

// AppDirName is the per-user configuration directory name.
const AppDirName = "CRYENGINE UI Helper"

// Settings are the persisted user preferences.
type Settings struct {
	GFxExportBin  string        `yaml:"gfxexport_bin" json:"gfxexport_bin"`
	ExportArgs    string        `yaml:"export_args" json:"export_args"`
	ExportTimeout time.Duration `yaml:"export_timeout" json:"export_timeout"`
	LastDir       string        `yaml:"last_dir" json:"last_dir"`
	LogLevel      string        `yaml:"log_level" json:"log_level"`
	AtomicWrites  bool          `yaml:"atomic_writes" json:"atomic_writes"`
	RequireAS3    bool          `yaml:"require_as3" json:"require_as3"`
}

// Defaults returns the settings used when neither file nor environment set a value.
func Defaults() Settings {
	return Settings{
		ExportTimeout: 2 * time.Minute,
		LogLevel:      "info",
		AtomicWrites:  true,
	}
}

// DefaultPath returns the settings file location. UIHELPER_CONFIG wins over
// the per-user config directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, AppDirName, "config.yaml"), nil
}

var setters = map[string]func(*Settings, string) error{
	"gfxexport_bin": func(s *Settings, v string) error { s.GFxExportBin = v; return nil },
	"export_args":   func(s *Settings, v string) error { s.ExportArgs = v; return nil },
	"last_dir":      func(s *Settings, v string) error { s.LastDir = v; return nil },
	"log_level":     func(s *Settings, v string) error { s.LogLevel = strings.ToLower(v); return nil },
	"export_timeout": func(s *Settings, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		s.ExportTimeout = d
		return nil
	},
	"atomic_writes": func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.AtomicWrites = b
		return nil
	},
	"require_as3": func(s *Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.RequireAS3 = b
		return nil
	},
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns a single setting by its YAML key.
func (s *Settings) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: %q (known: %s)", ErrUnknownSetting, key, strings.Join(Keys(), ", "))
	}
	if err := set(s, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
