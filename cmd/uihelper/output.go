// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"io"

	"github.com/ManuGH/uihelper/internal/uixml"
	"github.com/ManuGH/uihelper/internal/validate"
	"gopkg.in/yaml.v3"
)

var formats = []string{"yaml", "json"}

func checkFormat(format string) error {
	v := validate.New()
	v.OneOf("--format", format, formats)
	if err := v.Err(); err != nil {
		return usageError{err}
	}
	return nil
}

func encode(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func printWarnings(w io.Writer, file string, warnings []uixml.Warning) {
	for _, warn := range warnings {
		_, _ = io.WriteString(w, "warning: "+file+": "+warn.String()+"\n")
	}
}
