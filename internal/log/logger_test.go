// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func captureJSON(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("no log output")
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", line, err)
	}
	return entry
}

func TestConfigure_BaseFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Version: "v1.2.3"})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("writer")
	l.Debug().Str(FieldPath, "hud.xml").Msg("descriptor written")

	entry := captureJSON(t, &buf)
	for key, want := range map[string]string{
		FieldService:   "uihelper",
		FieldVersion:   "v1.2.3",
		FieldComponent: "writer",
		FieldPath:      "hud.xml",
		"level":        "debug",
	} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %q", key, entry[key], want)
		}
	}
}

func TestConfigure_LevelFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "WARN")
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("global level = %v, want warn", zerolog.GlobalLevel())
	}
	l := Base()
	l.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info entry leaked at warn level: %q", buf.String())
	}
}

func TestConfigure_ExplicitLevelBeatsEnv(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	Configure(Config{Level: "debug", Output: &bytes.Buffer{}})
	t.Cleanup(func() { Configure(Config{}) })

	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level = %v, want debug", zerolog.GlobalLevel())
	}
}

func TestConfigure_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Format: "console", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := Base()
	l.Info().Msg("hello")
	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Fatalf("missing message in %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("console output looks like json: %q", out)
	}
}

func TestContextIDs(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "nil context", ctx: nil, want: ""},
		{name: "no id", ctx: context.Background(), want: ""},
		{name: "wrong type", ctx: context.WithValue(context.Background(), jobIDKey, 7), want: ""},
		{name: "set", ctx: ContextWithJobID(nil, "job-1"), want: "job-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JobIDFromContext(tt.ctx); got != tt.want {
				t.Errorf("JobIDFromContext() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := RunIDFromContext(ContextWithRunID(context.Background(), "run-9")); got != "run-9" {
		t.Errorf("RunIDFromContext() = %q", got)
	}
}

func TestWithComponentFromContext(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	ctx := ContextWithJobID(ContextWithRunID(context.Background(), "run-1"), "job-2")
	l := WithComponentFromContext(ctx, "batch")
	l.Info().Msg("m")

	entry := captureJSON(t, &buf)
	if entry[FieldRunID] != "run-1" || entry[FieldJobID] != "job-2" || entry[FieldComponent] != "batch" {
		t.Errorf("unexpected fields: %v", entry)
	}
}

func TestWithContext_NoIDsReturnsSameLogger(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	got := WithContext(context.Background(), l)
	got.Info().Msg("m")
	if strings.Contains(buf.String(), FieldJobID) {
		t.Errorf("unexpected job id field: %s", buf.String())
	}
}

func TestFromContext_FallsBackToBase(t *testing.T) {
	if l := FromContext(context.Background()); l.GetLevel() == zerolog.Disabled {
		t.Error("expected base logger, got disabled")
	}

	var buf bytes.Buffer
	stored := zerolog.New(&buf)
	ctx := stored.WithContext(context.Background())
	FromContext(ctx).Info().Msg("stored")
	if !strings.Contains(buf.String(), "stored") {
		t.Error("expected logger from context to be used")
	}
}
