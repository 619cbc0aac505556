// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"bufio"
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	langc "github.com/playbymail/langc"
	"github.com/playbymail/langc/internal/config"
	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/histstore"
	"github.com/playbymail/langc/internal/sess"
)

var cfg = config.Default()

var cmdRoot = &cobra.Command{
	Use:   "langc [file]",
	Short: "Compile a source file and report diagnostics",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.ShowVersion {
			fmt.Printf("%s\n", version.Short())
			return nil
		}
		if cfg.ShowBuildInfo {
			fmt.Printf("%s\n", version.String())
			return nil
		}
		if len(args) == 1 {
			cfg.InputPath = args[0]
		}
		return run(cfg)
	},
}

// quiet reports whether progress/summary lines should be suppressed: the
// CLI is quiet by default when stdout is redirected (a batch build), and
// always quiet when -quiet is given explicitly.
func quiet(cfg *config.Config) bool {
	return cfg.Quiet || !isatty.IsTerminal(os.Stdout.Fd())
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	source, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return err
	}

	sid := sess.New()
	start := time.Now()
	res, err := langc.Compile(source, cfg.InputPath)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	for _, d := range res.Diagnostics.Slice() {
		fmt.Println(renderDiagnostic(source, d))
	}

	bytesUsed := res.Arena.TotalBytesUsed()
	if !quiet(cfg) {
		log.Printf("[langc] %s: %d diagnostic(s), %s arena, %s\n",
			cfg.InputPath, res.Diagnostics.Len(), humanize.Bytes(uint64(bytesUsed)), elapsed)
	}

	if cfg.HistoryPath != "" {
		hs, err := histstore.Open(cfg.HistoryPath)
		if err != nil {
			log.Printf("[langc] history: %v\n", err)
		} else {
			defer hs.Close()
			if err := hs.Append(histstore.Record{
				SessionID:   sid.String(),
				Filename:    cfg.InputPath,
				ArenaBytes:  bytesUsed,
				Diagnostics: res.Diagnostics.Len(),
			}); err != nil {
				log.Printf("[langc] history: %v\n", err)
			}
		}
	}

	if res.Diagnostics.HasErrors() {
		os.Exit(1)
	}
	return nil
}

// renderDiagnostic formats one diagnostic as "file:line:col: kind:
// message" followed by a source excerpt with a caret under the column,
// per original_source/include/core/source_excerpt.h's suggestion —
// pretty-printing that the core itself never does (spec.md §1).
func renderDiagnostic(source []byte, d diag.Diagnostic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s: %s", d.Filename, d.Span.StartLine, d.Span.StartCol, strings.ToLower(d.Kind.String()), d.Message)
	if line, ok := sourceLine(source, d.Span.StartLine); ok {
		b.WriteByte('\n')
		b.WriteString(line)
		b.WriteByte('\n')
		for i := 1; i < d.Span.StartCol; i++ {
			b.WriteByte(' ')
		}
		b.WriteByte('^')
	}
	return b.String()
}

func sourceLine(source []byte, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	sc := bufio.NewScanner(bytes.NewReader(source))
	for i := 1; sc.Scan(); i++ {
		if i == n {
			return sc.Text(), true
		}
	}
	return "", false
}
