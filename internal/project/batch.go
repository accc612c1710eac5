// SPDX-License-Identifier: MIT

package project

import (
	"context"
	"fmt"

	"github.com/ManuGH/uihelper/internal/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// GenerateAll runs every project with at most jobs in flight. The first
// failure cancels the remaining projects. Results keep the order of paths.
func (g *Generator) GenerateAll(ctx context.Context, paths []string, jobs int) ([]Result, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]Result, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			jobCtx := log.ContextWithJobID(ctx, uuid.NewString())
			logger := log.WithContext(jobCtx, g.Logger)
			logger.Debug().Str("event", "project.start").Str(log.FieldPath, path).Msg("generating project")

			results[i] = Result{Project: path}
			p, err := LoadFile(path)
			if err != nil {
				return err
			}
			res, err := g.Generate(jobCtx, p)
			results[i] = res
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	err := eg.Wait()
	return results, err
}
