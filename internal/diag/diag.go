// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package diag

import (
	"github.com/playbymail/langc/internal/collections"
	"github.com/playbymail/langc/internal/span"
)

// Kind enumerates every diagnostic the lexer, parser, and semantic
// analyzer can emit. Parse-phase kinds are single-diagnostic-per-compile
// (first-error-wins); semantic kinds accumulate across the whole pass.
type Kind int

const (
	// parse errors — at most one of these per compilation.
	UnexpectedToken Kind = iota
	UnexpectedEof
	TrailingTokens

	// lexical — supplements the silent-EOF behavior spec.md §9 flags as
	// likely unintended; see SPEC_FULL.md §12.1.
	UnterminatedComment

	// name resolution
	UnknownType
	Redeclaration
	Undeclared

	// arity
	ArgCountMismatch

	// type
	TypeMismatch
	ReturnMismatch
	VariableTypeResolutionFailed

	// structure
	DimensionMismatch
	ArraySizeMismatch
	ExpectedArray
	UnexpectedList

	// operator
	BinopMismatch
	UnopMismatch

	// usage
	NotCallable
	NotIndexable
	FieldAccess
	ConstAssign

	// constness
	NotConst
	NotLvalue

	// supplemented, see SPEC_FULL.md §12.2 — additive, not a redefinition
	// of any kind above.
	BreakContinueOutsideLoop
)

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

var kindNames = map[Kind]string{
	UnexpectedToken:              "UnexpectedToken",
	UnexpectedEof:                "UnexpectedEof",
	TrailingTokens:               "TrailingTokens",
	UnterminatedComment:          "UnterminatedComment",
	UnknownType:                  "UnknownType",
	Redeclaration:                "Redeclaration",
	Undeclared:                   "Undeclared",
	ArgCountMismatch:             "ArgCountMismatch",
	TypeMismatch:                 "TypeMismatch",
	ReturnMismatch:               "ReturnMismatch",
	VariableTypeResolutionFailed: "VariableTypeResolutionFailed",
	DimensionMismatch:            "DimensionMismatch",
	ArraySizeMismatch:            "ArraySizeMismatch",
	ExpectedArray:                "ExpectedArray",
	UnexpectedList:               "UnexpectedList",
	BinopMismatch:                "BinopMismatch",
	UnopMismatch:                 "UnopMismatch",
	NotCallable:                  "NotCallable",
	NotIndexable:                 "NotIndexable",
	FieldAccess:                  "FieldAccess",
	ConstAssign:                  "ConstAssign",
	NotConst:                     "NotConst",
	NotLvalue:                    "NotLvalue",
	BreakContinueOutsideLoop:     "BreakContinueOutsideLoop",
}

// Diagnostic is one tagged record: a kind, a span, the filename it came
// from, and a kind-specific payload. Message is a plain-text rendering of
// the payload kept for convenience; Name/Expected/Actual/ExpectedCount/
// ActualCount carry the same information in a form a host can switch on
// without parsing Message.
type Diagnostic struct {
	Kind     Kind
	Span     span.Span
	Filename string
	Message  string

	Name          string
	Expected      string
	Actual        string
	ExpectedCount int
	ActualCount   int
}

// List is the ordered diagnostic accumulator: source order for semantic
// diagnostics, lex/parse errors first when present (spec.md §5).
type List struct {
	items *collections.Seq[Diagnostic]
}

// NewList creates an empty diagnostic list.
func NewList() *List {
	return &List{items: collections.NewSeq[Diagnostic](8)}
}

// Add appends d to the list.
func (l *List) Add(d Diagnostic) {
	_ = l.items.Push(d)
}

// Len returns the number of diagnostics recorded.
func (l *List) Len() int { return l.items.Len() }

// Slice returns the diagnostics in order. The caller must not mutate the
// result.
func (l *List) Slice() []Diagnostic { return l.items.Slice() }

// HasErrors reports whether any diagnostic was recorded. Every Kind this
// package defines is an error-severity diagnostic; there is no warning
// tier in this language.
func (l *List) HasErrors() bool { return l.items.Len() > 0 }
