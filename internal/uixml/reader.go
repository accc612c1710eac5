// SPDX-License-Identifier: MIT

package uixml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MaxDocumentSize caps how much input a single Read consumes. Descriptors
// are a few kilobytes; anything near this limit is not a descriptor.
const MaxDocumentSize = 4 * 1024 * 1024

type readOptions struct {
	strict  bool
	maxSize int64
}

// ReadOption tunes a single Read call.
type ReadOption func(*readOptions)

// WithStrict makes every Warning fatal.
func WithStrict(strict bool) ReadOption {
	return func(o *readOptions) { o.strict = strict }
}

// WithMaxSize overrides MaxDocumentSize.
func WithMaxSize(n int64) ReadOption {
	return func(o *readOptions) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// Result is a parsed descriptor together with the warnings met on the way.
type Result struct {
	Config   *ElementConfig
	Warnings []Warning
}

// Read parses a descriptor from r.
func Read(r io.Reader, opts ...ReadOption) (*ElementConfig, error) {
	res, err := ReadWithWarnings(r, opts...)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// ReadFile parses the descriptor stored at path.
func ReadFile(path string, opts ...ReadOption) (*ElementConfig, error) {
	res, err := ReadFileWithWarnings(path, opts...)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// ReadFileWithWarnings is ReadFile that also reports recoverable warnings.
func ReadFileWithWarnings(path string, opts ...ReadOption) (Result, error) {
	path = filepath.Clean(path)
	// #nosec G304 -- descriptor paths are chosen by the operator
	f, err := os.Open(path)
	if err != nil {
		return Result{}, &ParseError{Msg: "open descriptor", Err: err}
	}
	defer func() { _ = f.Close() }()
	return ReadWithWarnings(f, opts...)
}

// ReadWithWarnings is Read that also reports recoverable warnings.
func ReadWithWarnings(r io.Reader, opts ...ReadOption) (Result, error) {
	o := readOptions{maxSize: MaxDocumentSize}
	for _, opt := range opts {
		opt(&o)
	}

	dec := xml.NewDecoder(io.LimitReader(r, o.maxSize))
	dec.Strict = true
	// No custom entities: only the predefined XML escapes are expanded.
	dec.Entity = make(map[string]string)

	s := &scanner{
		dec:    dec,
		strict: o.strict,
		cfg:    &ElementConfig{},
		cursor: cursor{index: -1},
	}
	if err := s.run(); err != nil {
		return Result{}, err
	}
	return Result{Config: s.cfg, Warnings: s.warnings}, nil
}

// state is the container the scanner is currently inside of.
type state int

const (
	stateAwaitingRoot state = iota
	stateInUIElement
	stateInFunctionsList
	stateInEventsList
)

// cursor points at the runnable that receives subsequent <param> tags.
type cursor struct {
	kind  RunnableKind
	index int
}

type scanner struct {
	dec      *xml.Decoder
	strict   bool
	cfg      *ElementConfig
	state    state
	cursor   cursor
	warnings []Warning
}

func (s *scanner) run() error {
	for {
		tok, err := s.dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			line, col := s.dec.InputPos()
			return &ParseError{Line: line, Column: col, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := s.start(t); err != nil {
				return err
			}
		case xml.EndElement:
			s.end(t)
		}
	}
}

func (s *scanner) start(el xml.StartElement) error {
	switch el.Name.Local {
	case "UIElements":
		name, err := s.required(el, "name")
		if err != nil {
			return err
		}
		s.cfg.ElementsName = name

	case "UIElement":
		name, err := s.required(el, "name")
		if err != nil {
			return err
		}
		s.cfg.ElementName = name
		s.state = stateInUIElement

	case "GFx":
		raw, err := s.required(el, "layer")
		if err != nil {
			return err
		}
		layer, err := ParseLayer(raw)
		if err != nil {
			return s.fail(el, "layer", err)
		}
		s.cfg.GFxLayer = layer

	case "Align":
		return s.align(el)

	case "functions":
		s.state = stateInFunctionsList

	case "events":
		s.state = stateInEventsList

	case "function":
		return s.openRunnable(el, KindFunction, stateInFunctionsList)

	case "event":
		return s.openRunnable(el, KindEvent, stateInEventsList)

	case "param":
		return s.param(el)
	}
	return nil
}

func (s *scanner) end(el xml.EndElement) {
	switch el.Name.Local {
	case "functions", "events":
		s.state = stateInUIElement
	case "UIElement":
		s.state = stateAwaitingRoot
	}
}

func (s *scanner) align(el xml.StartElement) error {
	mode, err := s.required(el, "mode")
	if err != nil {
		return err
	}
	if mode == "fullscreen" {
		s.cfg.Fullscreen = true
		return nil
	}
	s.cfg.Fullscreen = false

	valign, err := s.required(el, "valign")
	if err != nil {
		return err
	}
	if v, ok := ParseVAlign(valign); ok {
		s.cfg.VAlign = v
	} else if err := s.warn(el, "valign", valign, "unrecognized vertical alignment, keeping "+s.cfg.VAlign.String()); err != nil {
		return err
	}

	halign, err := s.required(el, "halign")
	if err != nil {
		return err
	}
	if h, ok := ParseHAlign(halign); ok {
		s.cfg.HAlign = h
	} else if err := s.warn(el, "halign", halign, "unrecognized horizontal alignment, keeping "+s.cfg.HAlign.String()); err != nil {
		return err
	}
	return nil
}

func (s *scanner) openRunnable(el xml.StartElement, kind RunnableKind, want state) error {
	name, err := s.required(el, "name")
	if err != nil {
		return err
	}
	if s.state != want {
		if err := s.warn(el, "", "", fmt.Sprintf("%s outside of its list", kind)); err != nil {
			return err
		}
	}
	list := s.cfg.Runnables(kind)
	*list = append(*list, Runnable{Name: name})
	s.cursor = cursor{kind: kind, index: len(*list) - 1}
	return nil
}

func (s *scanner) param(el xml.StartElement) error {
	name, err := s.required(el, "name")
	if err != nil {
		return err
	}
	desc, _ := s.optional(el, "desc")

	typ := ParamAny
	if raw, ok := s.optional(el, "type"); ok {
		t, known := ParseParamType(raw)
		if !known {
			if err := s.warn(el, "type", raw, "unknown parameter type, using any"); err != nil {
				return err
			}
		}
		typ = t
	}

	if s.cursor.index < 0 {
		return s.warn(el, "name", name, "parameter outside of any function or event dropped")
	}
	list := *s.cfg.Runnables(s.cursor.kind)
	owner := &list[s.cursor.index]
	owner.Parameters = append(owner.Parameters, Parameter{
		Name:        name,
		Description: desc,
		Type:        typ,
	})
	return nil
}

func (s *scanner) required(el xml.StartElement, attr string) (string, error) {
	v, ok := s.optional(el, attr)
	if !ok {
		return "", s.fail(el, attr, ErrMissingAttribute)
	}
	return v, nil
}

func (s *scanner) optional(el xml.StartElement, attr string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == attr {
			return a.Value, true
		}
	}
	return "", false
}

func (s *scanner) fail(el xml.StartElement, attr string, err error) error {
	line, col := s.dec.InputPos()
	return &ParseError{Tag: el.Name.Local, Attr: attr, Line: line, Column: col, Err: err}
}

// warn records a recoverable problem, or fails in strict mode.
func (s *scanner) warn(el xml.StartElement, attr, value, msg string) error {
	line, _ := s.dec.InputPos()
	w := Warning{Tag: el.Name.Local, Attr: attr, Value: value, Line: line, Message: msg}
	if s.strict {
		return s.fail(el, attr, fmt.Errorf("%w: %s", ErrStrict, msg))
	}
	s.warnings = append(s.warnings, w)
	return nil
}

// ParseLayer validates a render layer given as text, e.g. from a form field.
// A single leading plus sign is accepted.
func ParseLayer(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidLayer, raw, err)
	}
	return uint(n), nil
}
