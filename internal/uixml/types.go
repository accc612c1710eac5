// SPDX-License-Identifier: MIT

// Package uixml reads and writes the UIElements XML descriptor consumed by
// the CRYENGINE GFx toolchain.
package uixml

import (
	"fmt"

	"golang.org/x/text/cases"
)

// fold case-folds a wire value for comparison. A Caser is stateful, so a
// fresh one is used per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// HAlign is the horizontal anchor of a non-fullscreen element.
type HAlign int

const (
	HAlignCenter HAlign = iota
	HAlignLeft
	HAlignRight
)

func (a HAlign) String() string {
	switch a {
	case HAlignLeft:
		return "left"
	case HAlignRight:
		return "right"
	default:
		return "center"
	}
}

// ParseHAlign maps a wire value to an HAlign. Comparison is case-insensitive.
func ParseHAlign(s string) (HAlign, bool) {
	switch fold(s) {
	case "left":
		return HAlignLeft, true
	case "center":
		return HAlignCenter, true
	case "right":
		return HAlignRight, true
	}
	return HAlignCenter, false
}

func (a HAlign) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *HAlign) UnmarshalText(b []byte) error {
	v, ok := ParseHAlign(string(b))
	if !ok {
		return fmt.Errorf("unknown halign %q", string(b))
	}
	*a = v
	return nil
}

// VAlign is the vertical anchor of a non-fullscreen element.
type VAlign int

const (
	VAlignCenter VAlign = iota
	VAlignTop
	VAlignBottom
)

func (a VAlign) String() string {
	switch a {
	case VAlignTop:
		return "top"
	case VAlignBottom:
		return "bottom"
	default:
		return "center"
	}
}

// ParseVAlign maps a wire value to a VAlign. Comparison is case-insensitive.
func ParseVAlign(s string) (VAlign, bool) {
	switch fold(s) {
	case "top":
		return VAlignTop, true
	case "center":
		return VAlignCenter, true
	case "bottom":
		return VAlignBottom, true
	}
	return VAlignCenter, false
}

func (a VAlign) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *VAlign) UnmarshalText(b []byte) error {
	v, ok := ParseVAlign(string(b))
	if !ok {
		return fmt.Errorf("unknown valign %q", string(b))
	}
	*a = v
	return nil
}

// ParamType is the declared type of a function or event parameter.
type ParamType int

const (
	// ParamAny is never written to the wire.
	ParamAny ParamType = iota
	ParamInt
	ParamBool
	ParamString
	ParamFloat
)

func (t ParamType) String() string {
	switch t {
	case ParamInt:
		return "int"
	case ParamBool:
		return "bool"
	case ParamString:
		return "string"
	case ParamFloat:
		return "float"
	default:
		return "any"
	}
}

// ParseParamType maps a wire value to a ParamType. Unknown values map to
// ParamAny and report false.
func ParseParamType(s string) (ParamType, bool) {
	switch fold(s) {
	case "int":
		return ParamInt, true
	case "bool":
		return ParamBool, true
	case "string":
		return ParamString, true
	case "float":
		return ParamFloat, true
	case "any", "":
		return ParamAny, true
	}
	return ParamAny, false
}

func (t ParamType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ParamType) UnmarshalText(b []byte) error {
	v, ok := ParseParamType(string(b))
	if !ok {
		return fmt.Errorf("unknown parameter type %q", string(b))
	}
	*t = v
	return nil
}

// Parameter is a single typed argument of a Runnable.
type Parameter struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"desc,omitempty" json:"desc,omitempty"`
	Type        ParamType `yaml:"type,omitempty" json:"type,omitempty"`
}

// Runnable is a function or event exposed by the UI element.
type Runnable struct {
	Name       string      `yaml:"name" json:"name"`
	Parameters []Parameter `yaml:"params,omitempty" json:"params,omitempty"`
}

// RunnableKind selects between the functions and events of an element.
type RunnableKind int

const (
	KindFunction RunnableKind = iota
	KindEvent
)

func (k RunnableKind) String() string {
	if k == KindEvent {
		return "event"
	}
	return "function"
}

// ElementConfig is the in-memory form of one UIElements descriptor.
type ElementConfig struct {
	ElementsName string `yaml:"elements_name" json:"elements_name"`
	ElementName  string `yaml:"element_name" json:"element_name"`
	// GFxFileName is written but not restored by Read.
	GFxFileName string     `yaml:"gfx_file,omitempty" json:"gfx_file,omitempty"`
	GFxLayer    uint       `yaml:"layer" json:"layer"`
	Fullscreen  bool       `yaml:"fullscreen" json:"fullscreen"`
	HAlign      HAlign     `yaml:"halign" json:"halign"`
	VAlign      VAlign     `yaml:"valign" json:"valign"`
	Functions   []Runnable `yaml:"functions,omitempty" json:"functions,omitempty"`
	Events      []Runnable `yaml:"events,omitempty" json:"events,omitempty"`
}

// Runnables returns the list holding runnables of the given kind.
func (c *ElementConfig) Runnables(kind RunnableKind) *[]Runnable {
	if kind == KindEvent {
		return &c.Events
	}
	return &c.Functions
}
