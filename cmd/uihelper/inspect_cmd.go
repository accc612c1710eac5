// SPDX-License-Identifier: MIT

package main

import (
	"github.com/ManuGH/uihelper/internal/uixml"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var format string
	var strict bool

	cmd := &cobra.Command{
		Use:   "inspect <file.xml>",
		Short: "Print a descriptor as YAML or JSON",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			res, err := uixml.ReadFileWithWarnings(args[0], uixml.WithStrict(strict))
			if err != nil {
				return err
			}
			printWarnings(a.errOut, args[0], res.Warnings)
			return encode(a.out, format, res.Config)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat reader warnings as errors")
	return cmd
}
