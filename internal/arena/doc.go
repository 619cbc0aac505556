// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package arena implements a bump allocator over a singly-linked list of
// blocks. Interned keys are carved from its blocks; interned records, AST
// nodes and canonical types are Go heap values handed out by AllocValue and
// AllocSlice and counted against the same byte budget. There is no
// per-object deallocation. Scopes, symbols and diagnostics are not
// allocated here: they are ordinary heap values the Arena does not count.
package arena
