// SPDX-License-Identifier: MIT

package gfxexport

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBinaryNotConfigured is returned when no GFxExport path is set.
var ErrBinaryNotConfigured = errors.New("gfxexport binary not configured")

// ExitError reports a non-zero exporter exit.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("gfxexport exited with code %d", e.Code)
	}
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return fmt.Sprintf("gfxexport exited with code %d: %s", e.Code, msg)
}
