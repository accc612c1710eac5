// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/ManuGH/uihelper/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprintf(a.out, "uihelper %s\n", version.String())
			return nil
		},
	}
}
