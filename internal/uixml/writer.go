// SPDX-License-Identifier: MIT

package uixml

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

// indentUnit is the indentation of one nesting level in written descriptors.
const indentUnit = "    "

// WriteFile writes cfg to path. The file is created or truncated; a failed
// write may leave it partially written.
func WriteFile(path string, cfg *ElementConfig) error {
	path = filepath.Clean(path)
	// #nosec G304 -- destination is chosen by the operator
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := Write(f, cfg); err != nil {
		_ = f.Close()
		var we *WriteError
		if errors.As(err, &we) {
			we.Path = path
		}
		return err
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Write serializes cfg to w in the fixed descriptor layout.
func Write(w io.Writer, cfg *ElementConfig) error {
	e := &emitter{w: bufio.NewWriter(w)}

	e.open(0, "UIElements", attr{"name", cfg.ElementsName})
	e.open(1, "UIElement", attr{"name", cfg.ElementName})
	e.open(2, "GFx", attr{"file", cfg.GFxFileName}, attr{"layer", strconv.FormatUint(uint64(cfg.GFxLayer), 10)})
	e.open(3, "Constraints")
	if cfg.Fullscreen {
		e.empty(4, "Align", attr{"mode", "fullscreen"}, attr{"scale", "1"}, attr{"maximize", "1"})
	} else {
		e.empty(4, "Align", attr{"mode", "dynamic"}, attr{"valign", cfg.VAlign.String()}, attr{"halign", cfg.HAlign.String()})
	}
	e.close(3, "Constraints")
	e.close(2, "GFx")

	e.runnables(2, "functions", "function", "funcname", cfg.Functions)
	e.runnables(2, "events", "event", "fscommand", cfg.Events)

	e.close(1, "UIElement")
	e.close(0, "UIElements")

	if e.err == nil {
		e.err = e.w.Flush()
	}
	if e.err != nil {
		return &WriteError{Err: e.err}
	}
	return nil
}

type attr struct {
	name, value string
}

// emitter writes tags line by line and keeps the first error it meets.
type emitter struct {
	w   *bufio.Writer
	err error
}

func (e *emitter) runnables(depth int, list, tag, alias string, items []Runnable) {
	if len(items) == 0 {
		return
	}
	e.open(depth, list)
	for _, r := range items {
		attrs := []attr{{"name", r.Name}, {alias, r.Name}}
		if len(r.Parameters) == 0 {
			e.empty(depth+1, tag, attrs...)
			continue
		}
		e.open(depth+1, tag, attrs...)
		for _, p := range r.Parameters {
			e.empty(depth+2, "param", paramAttrs(p)...)
		}
		e.close(depth+1, tag)
	}
	e.close(depth, list)
}

func paramAttrs(p Parameter) []attr {
	attrs := []attr{{"name", p.Name}}
	if p.Description != "" {
		attrs = append(attrs, attr{"desc", p.Description})
	}
	if p.Type != ParamAny {
		attrs = append(attrs, attr{"type", p.Type.String()})
	}
	return attrs
}

func (e *emitter) open(depth int, tag string, attrs ...attr) {
	e.tag(depth, tag, attrs, ">")
}

func (e *emitter) empty(depth int, tag string, attrs ...attr) {
	e.tag(depth, tag, attrs, " />")
}

func (e *emitter) close(depth int, tag string) {
	e.line(depth, "</"+tag+">")
}

func (e *emitter) tag(depth int, tag string, attrs []attr, end string) {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		if err := checkChars(a); err != nil && e.err == nil {
			e.err = err
		}
		if err := xml.EscapeText(&b, []byte(a.value)); err != nil && e.err == nil {
			e.err = err
		}
		b.WriteByte('"')
	}
	b.WriteString(end)
	e.line(depth, b.String())
}

// checkChars rejects values EscapeText would silently replace with U+FFFD.
func checkChars(a attr) error {
	for i, r := range a.value {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(a.value[i:]); size == 1 {
				return fmt.Errorf("%w: invalid UTF-8 in %s at byte %d", ErrInvalidChar, a.name, i)
			}
		}
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %U in %s", ErrInvalidChar, r, a.name)
		}
	}
	return nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

func (e *emitter) line(depth int, s string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(strings.Repeat(indentUnit, depth)); err != nil {
		e.err = err
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.err = err
		return
	}
	e.err = e.w.WriteByte('\n')
}
