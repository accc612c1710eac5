// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/ManuGH/uihelper/internal/uixml"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file.xml>...",
		Short: "Check that descriptors parse and are complete",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			failed := 0
			for _, file := range args {
				if err := validateDescriptor(a, file, strict); err != nil {
					fmt.Fprintf(a.errOut, "✗ %s: %v\n", file, err)
					failed++
					continue
				}
				fmt.Fprintf(a.out, "✓ %s is valid\n", file)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d descriptors invalid", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat reader warnings as errors")
	return cmd
}

func validateDescriptor(a *app, file string, strict bool) error {
	res, err := uixml.ReadFileWithWarnings(file, uixml.WithStrict(strict))
	if err != nil {
		return err
	}
	printWarnings(a.errOut, file, res.Warnings)
	printWarnings(a.errOut, file, uixml.Lint(res.Config))
	return uixml.Validate(res.Config)
}
