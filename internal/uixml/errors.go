// SPDX-License-Identifier: MIT

package uixml

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAttribute classifies a ParseError caused by an absent required attribute.
	ErrMissingAttribute = errors.New("attribute not found")
	// ErrInvalidLayer classifies a layer value that is not a non-negative integer.
	ErrInvalidLayer = errors.New("invalid gfx layer")
	// ErrStrict classifies a warning promoted to an error by strict reading.
	ErrStrict = errors.New("strict mode")
	// ErrInvalidChar classifies a value that cannot be represented in XML.
	ErrInvalidChar = errors.New("character not allowed in XML")
)

// ParseError is returned by Read for any fatal problem in the input document.
type ParseError struct {
	Tag    string
	Attr   string
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("uixml read")
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d:%d)", e.Line, e.Column)
	}
	if e.Tag != "" {
		fmt.Fprintf(&b, ": <%s>", e.Tag)
	}
	if e.Attr != "" {
		fmt.Fprintf(&b, " attribute %q", e.Attr)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// WriteError is returned by Write and WriteFile when output cannot be produced.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("uixml write: %v", e.Err)
	}
	return fmt.Sprintf("uixml write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Warning is a recoverable oddity found while reading. The lenient reader
// records it and carries on.
type Warning struct {
	Tag     string
	Attr    string
	Value   string
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Attr != "" {
		return fmt.Sprintf("line %d: <%s> %s=%q: %s", w.Line, w.Tag, w.Attr, w.Value, w.Message)
	}
	return fmt.Sprintf("line %d: <%s>: %s", w.Line, w.Tag, w.Message)
}
