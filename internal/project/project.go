// SPDX-License-Identifier: MIT

// Package project turns a YAML project file into a UIElements descriptor
// and a converted .gfx movie.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/uihelper/internal/fsutil"
	"github.com/ManuGH/uihelper/internal/uixml"
	"github.com/ManuGH/uihelper/internal/validate"
	"gopkg.in/yaml.v3"
)

// Project describes one UI element and where its artefacts go.
type Project struct {
	SWF        string              `yaml:"swf"`
	OutputDir  string              `yaml:"output_dir"`
	XMLFile    string              `yaml:"xml_file,omitempty"`
	GFxFile    string              `yaml:"gfx_file,omitempty"`
	ExportArgs string              `yaml:"export_args,omitempty"`
	SkipExport bool                `yaml:"skip_export,omitempty"`
	Element    uixml.ElementConfig `yaml:"element"`

	// Path is the file the project was loaded from, if any.
	Path string `yaml:"-"`
}

// LoadFile parses a project strictly and resolves relative paths against
// the directory of path.
func LoadFile(path string) (*Project, error) {
	// #nosec G304 -- project paths come from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}

	var p Project
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("project %s is empty", path)
		}
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}

	p.Path = path
	base := filepath.Dir(path)
	p.SWF = resolve(base, p.SWF)
	p.OutputDir = resolve(base, p.OutputDir)
	p.normalize()
	return &p, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// normalize fills the descriptor's movie name: gfx_file, then the element's
// own gfx_file, then the movie basename.
func (p *Project) normalize() {
	switch {
	case p.GFxFile != "":
		p.Element.GFxFileName = p.GFxFile
	case p.Element.GFxFileName == "" && p.SWF != "":
		base := filepath.Base(p.SWF)
		p.Element.GFxFileName = strings.TrimSuffix(base, filepath.Ext(base)) + ".gfx"
	}
}

// XMLPath is where the descriptor is written.
func (p *Project) XMLPath() string {
	name := p.XMLFile
	if name == "" {
		name = p.Element.ElementName + ".xml"
	}
	return filepath.Join(p.OutputDir, name)
}

// Validate checks paths and the element.
func (p *Project) Validate() error {
	v := validate.New()
	v.FileExt("swf", p.SWF, ".swf")
	v.RegularFile("swf", p.SWF)
	v.Directory("output_dir", p.OutputDir, false)
	if p.XMLFile != "" {
		v.FileExt("xml_file", p.XMLFile, ".xml")
		confine(v, "xml_file", p.OutputDir, p.XMLFile)
	}
	if p.GFxFile != "" {
		v.FileExt("gfx_file", p.GFxFile, ".gfx")
		confine(v, "gfx_file", p.OutputDir, p.GFxFile)
	}
	// The descriptor's movie name is also where the export is moved to.
	if name := p.Element.GFxFileName; name != "" && name != p.GFxFile {
		v.FileExt("element.gfx_file", name, ".gfx")
		confine(v, "element.gfx_file", p.OutputDir, name)
	}
	return errors.Join(v.Err(), uixml.Validate(&p.Element))
}

func confine(v *validate.Validator, field, root, name string) {
	if _, err := fsutil.ConfineRelPath(root, name); err != nil {
		v.AddError(field, err.Error(), name)
	}
}

// FromXML builds a project around an existing descriptor. Descriptors do
// not carry a readable movie name, so it is derived from swf.
func FromXML(xmlPath, swf, outDir string, opts ...uixml.ReadOption) (*Project, []uixml.Warning, error) {
	res, err := uixml.ReadFileWithWarnings(xmlPath, opts...)
	if err != nil {
		return nil, nil, err
	}
	p := &Project{
		SWF:       swf,
		OutputDir: outDir,
		XMLFile:   filepath.Base(xmlPath),
		Element:   *res.Config,
	}
	if p.OutputDir == "" {
		p.OutputDir = filepath.Dir(xmlPath)
	}
	p.normalize()
	return p, res.Warnings, nil
}

// Save writes the project to path. Paths under the project directory are
// stored relative to it.
func (p *Project) Save(path string) error {
	out := *p
	base := filepath.Dir(path)
	out.SWF = relativize(base, p.SWF)
	out.OutputDir = relativize(base, p.OutputDir)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

func relativize(base, p string) string {
	if p == "" || !filepath.IsAbs(p) {
		return p
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(absBase, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return filepath.ToSlash(rel)
}
