// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package parser implements a hand-written recursive-descent parser over
// the token sequence lexer produces. It is first-error-wins: the first
// syntactic failure records one diagnostic and every enclosing production
// unwinds without adding more. Semantic fields on the AST (type,
// is-const-expr, const value) are never touched here; that is sema's job.
package parser
