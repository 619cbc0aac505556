// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package langc

import (
	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/ast"
	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/intern"
	"github.com/playbymail/langc/internal/lexer"
	"github.com/playbymail/langc/internal/parser"
	"github.com/playbymail/langc/internal/sema"
	"github.com/playbymail/langc/internal/token"
	"github.com/playbymail/langc/internal/types"
	"github.com/playbymail/langc/langerrs"
)

// defaultBlockSize is the arena's initial block size for a fresh Compile
// call. A block grows the arena lazily; this is only the first chunk.
const defaultBlockSize = 64 * 1024

// Result is everything a Compile call produces, with the arena that holds
// its interned keys and counts its AST and type allocations; Diagnostics is
// an ordinary heap value outside the arena. The Ast is nil only when a fatal parse or allocation error aborted
// the run before a program could be produced; Diagnostics is always usable,
// even then.
type Result struct {
	Arena       *arena.Arena
	Ast         *ast.Program
	Diagnostics *diag.List
	Keywords    *intern.Interner[[]byte, token.Kind]
	Idents      *intern.Interner[[]byte, token.Kind]
	Strings     *intern.Interner[[]byte, token.Kind]
	Types       *types.Store
}

// Compile runs the full front-end — lex, parse, semantic analysis — over
// source and returns a Result. Source is never held past this call beyond
// what the lexer copies into interned records; the caller owns the byte
// slice passed in.
//
// A non-nil error means a fatal condition aborted the compile before
// diagnostics could be collected at all: an empty source buffer, or an
// arena allocation failure. Ordinary compile errors (bad syntax, a type
// mismatch, an undeclared identifier) are never returned as errors — they
// accumulate in Result.Diagnostics, per spec.md §7.
func Compile(source []byte, filename string) (*Result, error) {
	if len(source) == 0 {
		return nil, langerrs.ErrEmptySource
	}

	a := arena.New(defaultBlockSize)
	diags := diag.NewList()

	l, err := lexer.New(a, filename, source)
	if err != nil {
		return nil, err
	}
	toks, err := l.Tokenize(diags)
	if err != nil {
		return nil, err
	}

	store, err := types.NewStore(a, l.Keywords)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Arena:       a,
		Diagnostics: diags,
		Keywords:    l.Keywords,
		Idents:      l.Idents,
		Strings:     l.Strings,
		Types:       store,
	}

	p := parser.New(a, filename, toks, diags)
	prog, err := p.ParseProgram()
	if err != nil {
		return res, err
	}
	res.Ast = prog
	if prog == nil {
		// A fatal parse error was recorded as a diagnostic and parsing
		// stopped short; there is no tree left to run sema over.
		return res, nil
	}

	an := sema.New(a, filename, store, diags)
	if err := an.Analyze(prog); err != nil {
		return res, err
	}
	return res, nil
}
