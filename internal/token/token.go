// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package token

import (
	"github.com/playbymail/langc/internal/intern"
	"github.com/playbymail/langc/internal/span"
)

// Kind enumerates every token kind the lexer and parser agree on.
type Kind int

const (
	Eof Kind = iota
	Unknown
	Comment

	Identifier

	// keywords
	KwFn
	KwIf
	KwElse
	KwWhile
	KwFor
	KwReturn
	KwBreak
	KwContinue
	KwConst

	// primitive type keywords
	KwI32
	KwI64
	KwBool
	KwF32
	KwF64
	KwStr
	KwChar

	// literal keywords
	KwTrue
	KwFalse

	// literals
	IntLit
	FloatLit
	StringLit
	CharLit

	// operators
	PlusPlus
	MinusMinus
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	EqEq
	BangEq
	LtEq
	GtEq
	AmpAmp
	PipePipe
	Arrow
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Amp
	Lt
	Gt
	Dot

	// punctuation
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semicolon
	Colon
	Pipe
)

// Keywords maps every reserved word to its token kind. The lexer
// pre-populates the keyword interner with exactly these entries.
var Keywords = map[string]Kind{
	"fn":       KwFn,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"const":    KwConst,
	"i32":      KwI32,
	"i64":      KwI64,
	"bool":     KwBool,
	"f32":      KwF32,
	"f64":      KwF64,
	"str":      KwStr,
	"char":     KwChar,
	"true":     KwTrue,
	"false":    KwFalse,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(?)"
}

var kindNames = map[Kind]string{
	Eof: "Eof", Unknown: "Unknown", Comment: "Comment", Identifier: "Identifier",
	KwFn: "fn", KwIf: "if", KwElse: "else", KwWhile: "while", KwFor: "for",
	KwReturn: "return", KwBreak: "break", KwContinue: "continue", KwConst: "const",
	KwI32: "i32", KwI64: "i64", KwBool: "bool", KwF32: "f32", KwF64: "f64", KwStr: "str", KwChar: "char",
	KwTrue: "true", KwFalse: "false",
	IntLit: "IntLit", FloatLit: "FloatLit", StringLit: "StringLit", CharLit: "CharLit",
	PlusPlus: "++", MinusMinus: "--", PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	EqEq: "==", BangEq: "!=", LtEq: "<=", GtEq: ">=", AmpAmp: "&&", PipePipe: "||", Arrow: "->",
	Assign: "=", Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Bang: "!", Amp: "&", Lt: "<", Gt: ">", Dot: ".",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Semicolon: ";", Colon: ":", Pipe: "|",
}

// IsPrimitiveKeyword reports whether k names one of the seven primitive
// types that have a keyword (every primitive but void).
func (k Kind) IsPrimitiveKeyword() bool {
	switch k {
	case KwI32, KwI64, KwBool, KwF32, KwF64, KwStr, KwChar:
		return true
	}
	return false
}

// IsAssignOp reports whether k is one of the assignment operators.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusEq, MinusEq, StarEq, SlashEq, PercentEq:
		return true
	}
	return false
}

// Rec is the interned record carried by Identifier, keyword, and
// StringLit tokens. Its Meta is the token Kind: for keywords, the
// keyword's own kind (set once at pre-population); for identifiers and
// string literals, Identifier / StringLit, used only to tag which table a
// Rec came from.
type Rec = intern.Record[Kind]

// Token is one lexeme produced by the lexer.
type Token struct {
	Kind   Kind
	Span   span.Span
	Lexeme []byte // slice into the original source buffer

	// Rec is set for Identifier, every keyword kind, and StringLit. Nil
	// otherwise.
	Rec *Rec

	// CharVal holds the decoded codepoint for a CharLit token.
	CharVal rune
}
