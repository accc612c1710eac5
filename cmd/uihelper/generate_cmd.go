// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"runtime"

	"github.com/ManuGH/uihelper/internal/project"
	"github.com/ManuGH/uihelper/internal/validate"
	"github.com/spf13/cobra"
)

const maxJobs = 64

func newGenerateCmd(a *app) *cobra.Command {
	var jobs int
	var skipExport bool

	cmd := &cobra.Command{
		Use:   "generate <project.yaml>...",
		Short: "Write descriptors and export movies for one or more projects",
		Long: `Reads each project file, writes its UIElements descriptor and runs
GFxExport on the movie. Projects run in parallel; the first failure
cancels the rest.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := validate.New()
			v.Range("--jobs", jobs, 1, maxJobs)
			if err := v.Err(); err != nil {
				return usageError{err}
			}
			g := a.generator()
			g.SkipExport = skipExport

			results, err := g.GenerateAll(cmd.Context(), args, jobs)
			for _, res := range results {
				if res.XMLPath == "" {
					continue
				}
				line := "✓ " + res.XMLPath
				if res.GFxPath != "" {
					line += " + " + res.GFxPath
				}
				fmt.Fprintln(a.out, line)
			}

			if s, sErr := a.metrics.Summary(); sErr == nil {
				a.logger.Info().
					Str("event", "generate.summary").
					Int("descriptors_ok", s.DescriptorsOK).
					Int("descriptors_failed", s.DescriptorsFailed).
					Int("exports_ok", s.ExportsOK).
					Int("exports_failed", s.ExportsFailed).
					Int("exports_skipped", s.ExportsSkipped).
					Msg("generation finished")
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", min(runtime.GOMAXPROCS(0), maxJobs), "projects to generate in parallel")
	cmd.Flags().BoolVar(&skipExport, "skip-export", false, "write descriptors only, do not run GFxExport")
	return cmd
}

func (a *app) generator() *project.Generator {
	return &project.Generator{
		Settings: a.settings,
		Metrics:  a.metrics,
		Logger:   a.logger,
	}
}
