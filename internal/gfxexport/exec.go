// SPDX-License-Identifier: MIT

package gfxexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/ManuGH/uihelper/internal/procgroup"
	"github.com/rs/zerolog"
)

// maxCapture bounds each captured stream.
const maxCapture = 64 << 10

// Output is what a finished process left behind.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Exec runs an external binary. A non-zero exit returns the Output with
// ExitCode set together with a non-nil error.
type Exec interface {
	Run(ctx context.Context, name string, args []string) (Output, error)
}

// DefaultExecutor runs the binary in its own process group and stops the
// whole group when ctx is done.
type DefaultExecutor struct {
	Logger zerolog.Logger
	// Grace is how long SIGTERM is given before SIGKILL. Zero means 5s.
	Grace time.Duration
}

func (e *DefaultExecutor) Run(ctx context.Context, name string, args []string) (Output, error) {
	// #nosec G204 -- the exporter binary is configured by the user
	cmd := exec.Command(name, args...)
	procgroup.Set(cmd)

	stdout := &cappedBuffer{limit: maxCapture}
	stderr := &cappedBuffer{limit: maxCapture}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return Output{ExitCode: -1}, fmt.Errorf("start %s: %w", name, err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var err error
	select {
	case err = <-waitCh:
	case <-ctx.Done():
		grace := e.Grace
		if grace <= 0 {
			grace = 5 * time.Second
		}
		e.Logger.Warn().
			Int("pid", cmd.Process.Pid).
			Str("event", "gfxexport.terminate").
			Msg("context done, terminating exporter process group")
		_ = procgroup.Terminate(cmd, waitCh, grace)
		err = ctx.Err()
	}

	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) && out.ExitCode == 0 {
		out.ExitCode = -1
	}
	return out, err
}

// cappedBuffer keeps the first limit bytes and drops the rest silently.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if room := c.limit - c.buf.Len(); room > 0 {
		if len(p) > room {
			c.buf.Write(p[:room])
			c.truncated = true
		} else {
			c.buf.Write(p)
		}
	} else if len(p) > 0 {
		c.truncated = true
	}
	return len(p), nil
}

func (c *cappedBuffer) String() string {
	if c.truncated {
		return c.buf.String() + "\n[output truncated]"
	}
	return c.buf.String()
}
