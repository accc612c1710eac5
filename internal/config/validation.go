// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"time"

	"github.com/ManuGH/uihelper/internal/validate"
	"github.com/rs/zerolog"
)

// Validate reports every invalid setting at once.
func Validate(cfg Settings) error {
	v := validate.New()

	v.Custom("export_timeout", cfg.ExportTimeout, func(value interface{}) error {
		if d := value.(time.Duration); d < time.Second {
			return fmt.Errorf("must be at least 1s, got %s", d)
		}
		return nil
	})
	v.Custom("log_level", cfg.LogLevel, func(value interface{}) error {
		if _, err := zerolog.ParseLevel(value.(string)); err != nil {
			return err
		}
		return nil
	})
	if cfg.GFxExportBin != "" {
		v.RegularFile("gfxexport_bin", cfg.GFxExportBin)
	}
	if cfg.LastDir != "" {
		v.Directory("last_dir", cfg.LastDir, false)
	}

	return v.Err()
}
