// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package intern implements the dense interner: given a key type with a
// caller-supplied hash, equality, and canonicalization copier, it maps
// equal keys to one canonical, arena-owned record carrying a stable pointer
// and a dense 0-based index assigned in insertion order. The lexer's
// keyword/identifier/string tables are built on top of this package; the
// type store applies the same scheme directly over collections.HashMap.
package intern
