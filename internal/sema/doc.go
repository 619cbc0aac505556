// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package sema implements the two-pass semantic analyzer: pass 1 resolves
// every top-level function signature and defines its symbol in the global
// scope; pass 2 walks bodies and global initializers in source order,
// bidirectionally type-checking expressions, inserting implicit-cast nodes,
// folding constants, and rewriting unsized array declarations once their
// initializer's shape is known. Unlike the parser, sema never stops at the
// first error — every diagnostic is recorded and the walk continues so a
// single run surfaces every problem in the source.
package sema
