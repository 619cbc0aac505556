// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package config

import (
	"os"

	"github.com/playbymail/langc/langerrs"
)

// Config holds the langc CLI's run-time knobs. It is populated directly by
// cobra flag bindings in cmd/langc; there is no file format to load.
type Config struct {
	// InputPath is the source file to compile.
	InputPath string
	// ShowVersion prints the short version string and exits.
	ShowVersion bool
	// ShowBuildInfo prints the full build-info string and exits.
	ShowBuildInfo bool
	// HistoryPath, if non-empty, is a SQLite file that gets one row
	// appended per invocation (internal/histstore).
	HistoryPath string
	// Quiet suppresses progress/summary lines even when stdout is a tty.
	Quiet bool
}

// Default returns a Config with every knob at its zero value except the
// ones that need a concrete non-zero default.
func Default() *Config {
	return &Config{}
}

// Validate checks the knobs that can be checked before a compile is
// attempted: the input path must name a regular, readable file.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return langerrs.ErrEmptySource
	}
	sb, err := os.Stat(c.InputPath)
	if err != nil {
		return err
	}
	if sb.IsDir() {
		return langerrs.ErrIsDirectory
	}
	if !sb.Mode().IsRegular() {
		return langerrs.ErrNotRegularFile
	}
	return nil
}
