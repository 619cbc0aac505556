// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package main

import (
	"strings"
	"testing"

	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/span"
)

func TestRenderDiagnostic(t *testing.T) {
	source := []byte("x: i32 = \"string\";\n")

	tests := []struct {
		name string
		d    diag.Diagnostic
		want string
	}{
		{
			name: "sema-sourced TypeMismatch carries its Message through",
			d: diag.Diagnostic{
				Kind:     diag.TypeMismatch,
				Span:     span.Span{StartLine: 1, StartCol: 10, EndLine: 1, EndCol: 18},
				Filename: "test.lc",
				Expected: "i32",
				Actual:   "str",
				Message:  "expected type i32, found str",
			},
			want: "test.lc:1:10: typemismatch: expected type i32, found str",
		},
		{
			name: "parser-sourced diagnostic renders its literal Message",
			d: diag.Diagnostic{
				Kind:     diag.UnexpectedToken,
				Span:     span.Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1},
				Filename: "test.lc",
				Message:  "expected a declaration, found Eof",
			},
			want: "test.lc:1:1: unexpectedtoken: expected a declaration, found Eof",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := renderDiagnostic(source, tc.d)
			firstLine := strings.SplitN(got, "\n", 2)[0]
			if firstLine != tc.want {
				t.Fatalf("renderDiagnostic() first line = %q, want %q", firstLine, tc.want)
			}
			if strings.HasSuffix(firstLine, ": ") {
				t.Fatalf("renderDiagnostic() = %q, ends in an empty message", firstLine)
			}
			if !strings.Contains(got, "^") {
				t.Fatalf("renderDiagnostic() = %q, want a caret excerpt line", got)
			}
		})
	}
}

func TestSourceLine(t *testing.T) {
	source := []byte("line one\nline two\nline three")

	tests := []struct {
		name string
		n    int
		want string
		ok   bool
	}{
		{name: "first line", n: 1, want: "line one", ok: true},
		{name: "middle line", n: 2, want: "line two", ok: true},
		{name: "last line with no trailing newline", n: 3, want: "line three", ok: true},
		{name: "zero is out of range", n: 0, want: "", ok: false},
		{name: "negative is out of range", n: -1, want: "", ok: false},
		{name: "past end of source", n: 4, want: "", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := sourceLine(source, tc.n)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("sourceLine(%d) = (%q, %v), want (%q, %v)", tc.n, got, ok, tc.want, tc.ok)
			}
		})
	}
}
