// SPDX-License-Identifier: MIT

// Package gfxexport drives the Scaleform GFxExport tool that converts a
// movie into the .gfx file the engine loads.
package gfxexport

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ManuGH/uihelper/internal/log"
	"github.com/ManuGH/uihelper/internal/metrics"
	"github.com/mattn/go-shellwords"
	"github.com/rs/zerolog"
)

// BuildArgs returns the exporter command line: the movie, the user's extra
// arguments, then the output directory.
func BuildArgs(swf, extra, outDir string) ([]string, error) {
	args := []string{swf}
	if strings.TrimSpace(extra) != "" {
		p := shellwords.NewParser()
		words, err := p.Parse(extra)
		if err != nil {
			return nil, fmt.Errorf("parse export args %q: %w", extra, err)
		}
		args = append(args, words...)
	}
	return append(args, "-d", outDir), nil
}

// GFxPath is where the exporter puts the converted movie.
func GFxPath(swf, outDir string) string {
	base := filepath.Base(swf)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".gfx")
}

// Request is one conversion.
type Request struct {
	SWF    string
	OutDir string
	Args   string
}

// Result describes a successful conversion.
type Result struct {
	GFxPath  string
	Output   Output
	Duration time.Duration
}

// Exporter runs GFxExport with the user's settings.
type Exporter struct {
	Bin     string
	Timeout time.Duration
	Exec    Exec
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}

// Export converts req.SWF into req.OutDir.
func (e *Exporter) Export(ctx context.Context, req Request) (Result, error) {
	if e.Bin == "" {
		return Result{}, ErrBinaryNotConfigured
	}
	args, err := BuildArgs(req.SWF, req.Args, req.OutDir)
	if err != nil {
		return Result{}, err
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	runner := e.Exec
	if runner == nil {
		runner = &DefaultExecutor{Logger: e.Logger}
	}

	logger := log.WithContext(ctx, e.Logger)
	logger.Info().
		Str("event", "gfxexport.start").
		Str(log.FieldBinary, e.Bin).
		Str(log.FieldSWF, req.SWF).
		Str(log.FieldOutDir, req.OutDir).
		Strs("args", args).
		Msg("running exporter")

	start := time.Now()
	out, runErr := runner.Run(ctx, e.Bin, args)
	elapsed := time.Since(start)

	err = classify(ctx, out, runErr)
	e.Metrics.RecordExport(elapsed, err)

	if err != nil {
		logger.Error().
			Err(err).
			Str("event", "gfxexport.failed").
			Int(log.FieldExitCode, out.ExitCode).
			Int64(log.FieldDuration, elapsed.Milliseconds()).
			Msg("exporter failed")
		return Result{Output: out, Duration: elapsed}, err
	}

	res := Result{GFxPath: GFxPath(req.SWF, req.OutDir), Output: out, Duration: elapsed}
	logger.Info().
		Str("event", "gfxexport.done").
		Str(log.FieldPath, res.GFxPath).
		Int64(log.FieldDuration, elapsed.Milliseconds()).
		Msg("exporter finished")
	return res, nil
}

func classify(ctx context.Context, out Output, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("gfxexport timed out: %w", ctxErr)
		}
		return fmt.Errorf("gfxexport cancelled: %w", ctxErr)
	}
	if out.ExitCode > 0 {
		return &ExitError{Code: out.ExitCode, Stderr: out.Stderr}
	}
	if err != nil {
		return fmt.Errorf("run gfxexport: %w", err)
	}
	return nil
}
