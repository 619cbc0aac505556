// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package langerrs defines constant error types using a custom Error string
// type. It centralizes the fatal, host-level failures a compile can return
// before any diagnostic list exists: allocation exhaustion, a nil arena, an
// empty source buffer, an out-of-range dense index. The Error type supports
// comparison via errors.Is(). Compile-time problems in the source text
// (syntax errors, type mismatches) are never represented as error values —
// see package diag.
package langerrs
