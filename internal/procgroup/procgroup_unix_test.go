// SPDX-License-Identifier: MIT

//go:build unix

package procgroup

import (
	"os/exec"
	"testing"
	"time"
)

func TestTerminate_StopsGroup(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	// The child sleep shares the group and must die with its parent.
	cmd := exec.Command(sh, "-c", "sleep 30 & wait")
	Set(cmd)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	start := time.Now()
	err = Terminate(cmd, waitCh, 2*time.Second)
	if err == nil {
		t.Fatal("expected signal exit error")
	}
	if time.Since(start) > 10*time.Second {
		t.Fatalf("terminate took %s", time.Since(start))
	}
}

func TestTerminate_NilCommand(t *testing.T) {
	if err := Terminate(nil, nil, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Kill(&exec.Cmd{}, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
