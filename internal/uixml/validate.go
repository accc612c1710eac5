// SPDX-License-Identifier: MIT

package uixml

import (
	"fmt"

	"github.com/ManuGH/uihelper/internal/validate"
)

// Validate checks that cfg can be written as a descriptor the exporter
// accepts. Duplicate parameter names are allowed.
func Validate(cfg *ElementConfig) error {
	v := validate.New()
	v.NotEmpty("elements_name", cfg.ElementsName)
	v.NotEmpty("element_name", cfg.ElementName)

	for _, kind := range []RunnableKind{KindFunction, KindEvent} {
		for i, r := range *cfg.Runnables(kind) {
			field := fmt.Sprintf("%ss[%d]", kind, i)
			v.NotEmpty(field+".name", r.Name)
			for j, p := range r.Parameters {
				v.NotEmpty(fmt.Sprintf("%s.params[%d].name", field, j), p.Name)
			}
		}
	}
	return v.Err()
}

// Lint reports settings that are legal but have no effect.
func Lint(cfg *ElementConfig) []Warning {
	var out []Warning
	if cfg.Fullscreen && (cfg.HAlign != HAlignCenter || cfg.VAlign != VAlignCenter) {
		out = append(out, Warning{
			Tag:     "Align",
			Message: fmt.Sprintf("fullscreen ignores alignment %s/%s", cfg.HAlign, cfg.VAlign),
		})
	}
	return out
}
