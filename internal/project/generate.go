// SPDX-License-Identifier: MIT

package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ManuGH/uihelper/internal/config"
	"github.com/ManuGH/uihelper/internal/gfxexport"
	"github.com/ManuGH/uihelper/internal/log"
	"github.com/ManuGH/uihelper/internal/metrics"
	"github.com/ManuGH/uihelper/internal/swf"
	"github.com/rs/zerolog"
)

// ErrNotActionScript3 is returned when require_as3 is set and the movie
// was built for ActionScript 1/2.
var ErrNotActionScript3 = errors.New("movie does not use ActionScript 3")

// Generator produces the artefacts of a project.
type Generator struct {
	Settings config.Settings
	Exec     gfxexport.Exec
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	// SkipExport disables the exporter for every project.
	SkipExport bool
}

// Result lists what Generate produced.
type Result struct {
	Project  string        `json:"project" yaml:"project"`
	XMLPath  string        `json:"xml_path" yaml:"xml_path"`
	GFxPath  string        `json:"gfx_path,omitempty" yaml:"gfx_path,omitempty"`
	AS3      bool          `json:"as3" yaml:"as3"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Generate validates p, checks the movie, writes the descriptor and runs the
// exporter unless it is skipped.
func (g *Generator) Generate(ctx context.Context, p *Project) (Result, error) {
	start := time.Now()
	res := Result{Project: p.Path}
	logger := log.WithContext(ctx, g.Logger).With().
		Str(log.FieldSWF, p.SWF).
		Str(log.FieldElement, p.Element.ElementName).
		Logger()

	if err := p.Validate(); err != nil {
		return res, fmt.Errorf("invalid project: %w", err)
	}

	info, err := swf.InspectFile(p.SWF)
	if err != nil {
		return res, err
	}
	g.Metrics.RecordInspection(info.ActionScript3)
	res.AS3 = info.ActionScript3
	if !info.ActionScript3 {
		if g.Settings.RequireAS3 {
			return res, fmt.Errorf("%s: %w", p.SWF, ErrNotActionScript3)
		}
		logger.Warn().
			Str("event", "project.not_as3").
			Uint8("swf_version", info.Version).
			Msg("movie does not use ActionScript 3; engine callbacks may not fire")
	}

	if err := os.MkdirAll(p.OutputDir, 0o750); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	res.XMLPath = p.XMLPath()
	if err := os.MkdirAll(filepath.Dir(res.XMLPath), 0o750); err != nil {
		return res, fmt.Errorf("create descriptor dir: %w", err)
	}
	err = writeDescriptor(ctx, res.XMLPath, &p.Element, g.Settings.AtomicWrites)
	g.Metrics.RecordDescriptorWrite(err)
	if err != nil {
		return res, err
	}
	logger.Info().
		Str("event", "project.descriptor_written").
		Str(log.FieldXMLPath, res.XMLPath).
		Uint(log.FieldLayer, p.Element.GFxLayer).
		Msg("descriptor written")

	if p.SkipExport || g.SkipExport {
		g.Metrics.RecordExportSkipped()
		res.Duration = time.Since(start)
		return res, nil
	}

	args := p.ExportArgs
	if args == "" {
		args = g.Settings.ExportArgs
	}
	exp := &gfxexport.Exporter{
		Bin:     g.Settings.GFxExportBin,
		Timeout: g.Settings.ExportTimeout,
		Exec:    g.Exec,
		Metrics: g.Metrics,
		Logger:  logger,
	}
	out, err := exp.Export(ctx, gfxexport.Request{SWF: p.SWF, OutDir: p.OutputDir, Args: args})
	if err != nil {
		return res, err
	}

	res.GFxPath = out.GFxPath
	if want := filepath.Join(p.OutputDir, p.Element.GFxFileName); p.Element.GFxFileName != "" && want != out.GFxPath {
		if err := os.MkdirAll(filepath.Dir(want), 0o750); err != nil {
			return res, fmt.Errorf("create movie dir: %w", err)
		}
		if err := os.Rename(out.GFxPath, want); err != nil {
			return res, fmt.Errorf("rename exported movie: %w", err)
		}
		res.GFxPath = want
	}

	res.Duration = time.Since(start)
	return res, nil
}
