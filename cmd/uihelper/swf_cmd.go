// SPDX-License-Identifier: MIT

package main

import (
	"github.com/ManuGH/uihelper/internal/swf"
	"github.com/spf13/cobra"
)

func newSWFCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "swf <file.swf>",
		Short: "Print movie header information, including the ActionScript version",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			info, err := swf.InspectFile(args[0])
			if err != nil {
				return err
			}
			a.metrics.RecordInspection(info.ActionScript3)
			if !info.ActionScript3 {
				a.logger.Warn().Str("event", "swf.not_as3").Msg("movie does not use ActionScript 3")
			}
			return encode(a.out, format, info)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}
