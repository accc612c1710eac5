// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidator_NotEmpty(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain", "HUD", false},
		{"empty", "", true},
		{"whitespace only", "  \t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.NotEmpty("name", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_OneOf(t *testing.T) {
	v := New()
	v.OneOf("format", "yaml", []string{"yaml", "json"})
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.OneOf("format", "toml", []string{"yaml", "json"})
	if v.IsValid() {
		t.Fatal("expected error for toml")
	}
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"lower bound", 1, false},
		{"upper bound", 64, false},
		{"below", 0, true},
		{"above", 65, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Range("jobs", tt.value, 1, 64)
			if tt.wantErr == v.IsValid() {
				t.Errorf("Range(%d) valid=%v, wantErr=%v", tt.value, v.IsValid(), tt.wantErr)
			}
		})
	}
}

func TestValidator_FileExt(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"lower", "ui/hud.swf", false},
		{"upper", "ui/HUD.SWF", false},
		{"wrong", "ui/hud.fla", true},
		{"none", "ui/hud", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.FileExt("swf", tt.path, ".swf")
			if tt.wantErr == v.IsValid() {
				t.Errorf("FileExt(%q) valid=%v, wantErr=%v", tt.path, v.IsValid(), tt.wantErr)
			}
		})
	}
}

func TestValidator_RegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "GFxExport.exe")
	if err := os.WriteFile(file, []byte("bin"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", file, false},
		{"directory", dir, true},
		{"missing", filepath.Join(dir, "nope"), true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.RegularFile("bin", tt.path)
			if tt.wantErr == v.IsValid() {
				t.Errorf("RegularFile(%q) valid=%v, wantErr=%v", tt.path, v.IsValid(), tt.wantErr)
			}
		})
	}
}

func TestValidator_Directory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "later")

	tests := []struct {
		name      string
		path      string
		mustExist bool
		wantErr   bool
	}{
		{"existing", dir, true, false},
		{"missing allowed", missing, false, false},
		{"missing required", missing, true, true},
		{"file", file, false, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Directory("out", tt.path, tt.mustExist)
			if tt.wantErr == v.IsValid() {
				t.Errorf("Directory(%q) valid=%v, wantErr=%v", tt.path, v.IsValid(), tt.wantErr)
			}
		})
	}

	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("Directory must not create %s", missing)
	}
}

func TestValidator_Custom(t *testing.T) {
	v := New()
	v.Custom("layer", -1, func(val interface{}) error {
		if val.(int) < 0 {
			return errors.New("negative")
		}
		return nil
	})
	if v.IsValid() {
		t.Fatal("expected custom error")
	}
}

func TestValidationError_Joins(t *testing.T) {
	v := New()
	v.NotEmpty("a", "")
	v.NotEmpty("b", "")

	err := v.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(verr.Errors()))
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("expected joined message, got %q", err.Error())
	}

	// Err must return a copy, not alias the accumulator.
	v.NotEmpty("c", "")
	if len(verr.Errors()) != 2 {
		t.Errorf("ValidationError changed after further AddError")
	}
}

func TestValidator_ErrNilWhenValid(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
