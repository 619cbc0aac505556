// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package langc is a compiler front-end for a small statically-typed
// imperative language: functions, local and global variables, primitive
// scalars, pointers, multi-dimensional arrays with size inference,
// initializer lists, assignments, arithmetic and logical expressions,
// control flow, and function calls. Compile consumes source text and
// returns a fully type-annotated abstract syntax tree together with a
// diagnostic list; it never generates code.
//
// Interned keys live in one arena returned to the caller in the Result,
// and interned records, AST nodes and canonical types are counted against
// that arena's byte budget. Scopes, symbols and the diagnostic list are
// ordinary heap allocations that the arena neither holds nor counts.
package langc
