// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package span implements the source-location type shared by tokens, AST
// nodes, and diagnostics.
package span

// Span is a source location: 1-based start/end line and column. End is
// the position just past the last character the span covers, so a token
// `fn` at line 1, column 1 has EndCol 3.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Join returns the smallest span covering both a and b, in source order.
// It assumes a starts at or before b.
func Join(a, b Span) Span {
	return Span{
		StartLine: a.StartLine,
		StartCol:  a.StartCol,
		EndLine:   b.EndLine,
		EndCol:    b.EndCol,
	}
}

// Covers reports whether outer fully contains inner, i.e. outer.Start <=
// inner.Start and inner.End <= outer.End in source order.
func Covers(outer, inner Span) bool {
	if outer.StartLine > inner.StartLine || (outer.StartLine == inner.StartLine && outer.StartCol > inner.StartCol) {
		return false
	}
	if outer.EndLine < inner.EndLine || (outer.EndLine == inner.EndLine && outer.EndCol < inner.EndCol) {
		return false
	}
	return true
}
