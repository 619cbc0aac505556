// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package lexer_test

import (
	"testing"

	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/lexer"
	"github.com/playbymail/langc/internal/token"
)

func tokenize(t *testing.T, src string) ([]token.Token, *diag.List) {
	t.Helper()
	a := arena.New(4096)
	l, err := lexer.New(a, "test.lc", []byte(src))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	diags := diag.NewList()
	toks, err := l.Tokenize(diags)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	return toks, diags
}

func kinds(toks []token.Token) []token.Kind {
	var ks []token.Kind
	for _, tk := range toks {
		ks = append(ks, tk.Kind)
	}
	return ks
}

func TestMainReturnsTwelveTokens(t *testing.T) {
	toks, diags := tokenize(t, `fn main() -> i64 { return 10; }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	want := []token.Kind{
		token.KwFn, token.Identifier, token.LParen, token.RParen, token.Arrow, token.KwI64,
		token.LBrace, token.KwReturn, token.IntLit, token.Semicolon, token.RBrace, token.Eof,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestKeywordDisambiguation(t *testing.T) {
	toks, _ := tokenize(t, `forward`)
	if toks[0].Kind != token.Identifier {
		t.Fatalf("forward lexed as %v, want Identifier", toks[0].Kind)
	}
	if toks[0].Rec == nil {
		t.Fatalf("identifier token missing interned record")
	}
}

func TestStringEscapes(t *testing.T) {
	toks, diags := tokenize(t, `"a\nb\tc\\d\"e"`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	if toks[0].Kind != token.StringLit {
		t.Fatalf("kind=%v, want StringLit", toks[0].Kind)
	}
	want := "a\nb\tc\\d\"e"
	if string(toks[0].Rec.Key) != want {
		t.Fatalf("decoded = %q, want %q", toks[0].Rec.Key, want)
	}
}

func TestFloatLiteral(t *testing.T) {
	toks, _ := tokenize(t, `3.14`)
	if toks[0].Kind != token.FloatLit {
		t.Fatalf("kind=%v, want FloatLit", toks[0].Kind)
	}
	if string(toks[0].Lexeme) != "3.14" {
		t.Fatalf("lexeme=%q, want 3.14", toks[0].Lexeme)
	}
}

func TestUnterminatedBlockCommentDiagnoses(t *testing.T) {
	_, diags := tokenize(t, `/* comment without end`)
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want 1", diags.Len())
	}
	if diags.Slice()[0].Kind != diag.UnterminatedComment {
		t.Fatalf("Kind=%v, want UnterminatedComment", diags.Slice()[0].Kind)
	}
}

func TestOperators(t *testing.T) {
	toks, _ := tokenize(t, `++ -- += -= *= /= %= == != <= >= && || -> = + - * / % ! & < > .`)
	want := []token.Kind{
		token.PlusPlus, token.MinusMinus, token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq, token.PercentEq,
		token.EqEq, token.BangEq, token.LtEq, token.GtEq, token.AmpAmp, token.PipePipe, token.Arrow,
		token.Assign, token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.Bang, token.Amp,
		token.Lt, token.Gt, token.Dot, token.Eof,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUnknownByte(t *testing.T) {
	toks, _ := tokenize(t, "`")
	if toks[0].Kind != token.Unknown {
		t.Fatalf("kind=%v, want Unknown", toks[0].Kind)
	}
}
