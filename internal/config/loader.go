// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ManuGH/uihelper/internal/log"
	"gopkg.in/yaml.v3"
)

// Loader handles settings loading with precedence ENV > file > defaults.
type Loader struct {
	configPath      string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new settings loader. An empty path skips the file layer.
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the settings file the loader reads.
func (l *Loader) Path() string { return l.configPath }

// Load resolves settings and validates the result.
func (l *Loader) Load() (Settings, error) {
	cfg, _, err := l.load()
	if err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("validate settings: %w", err)
	}
	return cfg, nil
}

// LoadOrInit behaves like Load but creates the settings file with defaults
// when it does not exist, and rewrites it when known keys are missing. A
// failing save is logged and does not fail the load.
func (l *Loader) LoadOrInit() (Settings, error) {
	logger := log.WithComponent("config")

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); errors.Is(err, os.ErrNotExist) {
			logger.Info().
				Str("event", "config.init").
				Str(log.FieldPath, l.configPath).
				Msg("settings file missing, writing defaults")
			if err := Save(l.configPath, Defaults()); err != nil {
				logger.Warn().Err(err).Str("event", "config.init_failed").Msg("could not write default settings")
			}
		}
	}

	cfg, fileCfg, err := l.load()
	if err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("validate settings: %w", err)
	}

	if fileCfg != nil && len(fileCfg.missing) > 0 {
		logger.Info().
			Str("event", "config.resave").
			Strs("missing", fileCfg.missing).
			Msg("settings file incomplete, rewriting")
		if err := Save(l.configPath, fileCfg.Settings); err != nil {
			logger.Warn().Err(err).Str("event", "config.resave_failed").Msg("could not rewrite settings")
		}
	}
	return cfg, nil
}

// LoadFile reads only the file layer on top of defaults, ignoring the
// environment. It backs `config set`, which must not persist env overrides.
func (l *Loader) LoadFile() (Settings, error) {
	cfg := Defaults()
	if l.configPath == "" {
		return cfg, nil
	}
	fileCfg, err := l.loadFile(l.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load settings file: %w", err)
	}
	return fileCfg.Settings, nil
}

func (l *Loader) load() (Settings, *fileSettings, error) {
	cfg := Defaults()

	var fileCfg *fileSettings
	if l.configPath != "" {
		fc, err := l.loadFile(l.configPath)
		switch {
		case err == nil:
			fileCfg = fc
			cfg = fc.Settings
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, nil, fmt.Errorf("load settings file: %w", err)
		}
	}

	l.mergeEnv(&cfg)
	return cfg, fileCfg, nil
}

func (l *Loader) mergeEnv(cfg *Settings) {
	cfg.GFxExportBin = l.envString(EnvGFxExportBin, cfg.GFxExportBin)
	cfg.ExportArgs = l.envString(EnvExportArgs, cfg.ExportArgs)
	cfg.ExportTimeout = l.envDuration(EnvExportTimeout, cfg.ExportTimeout)
	cfg.LogLevel = strings.ToLower(l.envString(EnvLogLevel, cfg.LogLevel))
	cfg.AtomicWrites = l.envBool(EnvAtomicWrites, cfg.AtomicWrites)
	cfg.RequireAS3 = l.envBool(EnvRequireAS3, cfg.RequireAS3)
}

type fileSettings struct {
	Settings
	missing []string
}

func (l *Loader) loadFile(path string) (*fileSettings, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- the settings path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	out := &fileSettings{Settings: Defaults()}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&out.Settings); err != nil {
		if err == io.EOF {
			out.missing = Keys()
			return out, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	var present map[string]any
	if err := yaml.Unmarshal(data, &present); err == nil {
		for _, k := range Keys() {
			if _, ok := present[k]; !ok {
				out.missing = append(out.missing, k)
			}
		}
	}
	return out, nil
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}
