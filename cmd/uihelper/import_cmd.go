// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ManuGH/uihelper/internal/config"
	"github.com/ManuGH/uihelper/internal/project"
	"github.com/ManuGH/uihelper/internal/uixml"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var swfPath, outDir, output string
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <file.xml>",
		Short: "Create a project file from an existing descriptor",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			if swfPath == "" {
				return usagef("--swf is required")
			}
			xmlPath := args[0]
			if output == "" {
				output = strings.TrimSuffix(xmlPath, filepath.Ext(xmlPath)) + ".yaml"
			}

			p, warnings, err := project.FromXML(xmlPath, absOrSelf(swfPath), absOrSelf(outDir), uixml.WithStrict(strict))
			if err != nil {
				return err
			}
			printWarnings(a.errOut, xmlPath, warnings)
			if err := p.Save(output); err != nil {
				return err
			}
			a.rememberDir(filepath.Dir(xmlPath))
			fmt.Fprintf(a.out, "✓ wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVar(&swfPath, "swf", "", "movie the descriptor belongs to (required)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for generated files (default: the descriptor's directory)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "project file to write (default: <file>.yaml)")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat reader warnings as errors")
	return cmd
}

func absOrSelf(p string) string {
	if p == "" {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// rememberDir stores the last used directory. Failing to save only logs.
func (a *app) rememberDir(dir string) {
	abs := absOrSelf(dir)
	settings, err := a.loader.LoadFile()
	if err == nil {
		settings.LastDir = abs
		err = config.Save(a.configPath, settings)
	}
	if err != nil {
		a.logger.Warn().Err(err).Str("event", "config.last_dir_failed").Msg("could not remember directory")
		return
	}
	a.settings.LastDir = abs
}
