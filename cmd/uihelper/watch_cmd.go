// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/ManuGH/uihelper/internal/project"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var skipExport bool

	cmd := &cobra.Command{
		Use:   "watch <project.yaml>",
		Short: "Regenerate a project whenever it or its movie changes",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			p, err := project.LoadFile(path)
			if err != nil {
				return err
			}

			g := a.generator()
			g.SkipExport = skipExport
			regenerate := func(ctx context.Context) error {
				p, err := project.LoadFile(path)
				if err != nil {
					return err
				}
				res, err := g.Generate(ctx, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "✓ %s\n", res.XMLPath)
				return nil
			}

			if err := regenerate(cmd.Context()); err != nil {
				a.logger.Error().Err(err).Str("event", "watch.initial_failed").Msg("initial generation failed")
			}

			w := &project.Watcher{
				Paths:    []string{path, p.SWF},
				Debounce: project.DefaultDebounce,
				Logger:   a.logger,
			}
			return w.Run(cmd.Context(), regenerate)
		},
	}
	cmd.Flags().BoolVar(&skipExport, "skip-export", false, "write descriptors only, do not run GFxExport")
	return cmd
}
