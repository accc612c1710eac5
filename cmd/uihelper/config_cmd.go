// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/ManuGH/uihelper/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings (file and environment)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			return encode(a.out, format, a.settings)
		},
	}
	show.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting in the settings file",
		Long:  "Known keys: " + strings.Join(config.Keys(), ", "),
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(_ *cobra.Command, args []string) error {
			// Only the file layer is persisted; environment overrides stay out.
			settings, err := a.loader.LoadFile()
			if err != nil {
				return err
			}
			if err := settings.Set(args[0], args[1]); err != nil {
				return usageError{err}
			}
			if err := config.Validate(settings); err != nil {
				return err
			}
			if err := config.Save(a.configPath, settings); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "✓ %s = %s\n", args[0], args[1])
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintln(a.out, a.configPath)
			return nil
		},
	}

	cmd.AddCommand(show, set, path)
	return cmd
}
