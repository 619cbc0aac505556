// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playbymail/langc/internal/config"
	"github.com/playbymail/langc/langerrs"
)

func TestValidateEmptyInputPath(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != langerrs.ErrEmptySource {
		t.Fatalf("Validate() = %v, want ErrEmptySource", err)
	}
}

func TestValidateMissingFile(t *testing.T) {
	cfg := &config.Config{InputPath: filepath.Join(t.TempDir(), "nope.lc")}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() = nil, want an error for a missing file")
	}
}

func TestValidateDirectory(t *testing.T) {
	cfg := &config.Config{InputPath: t.TempDir()}
	if err := cfg.Validate(); err != langerrs.ErrIsDirectory {
		t.Fatalf("Validate() = %v, want ErrIsDirectory", err)
	}
}

func TestValidateRegularFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "main.lc")
	if err := os.WriteFile(name, []byte(`fn main() -> i64 { return 0; }`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg := &config.Config{InputPath: name}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}
