// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package lexer

import (
	"bytes"
	"unicode/utf8"

	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/fnv1a"
	"github.com/playbymail/langc/internal/intern"
	"github.com/playbymail/langc/internal/span"
	"github.com/playbymail/langc/internal/token"
)

// Lexer is a pointer-advance scanner over one source buffer.
type Lexer struct {
	arena    *arena.Arena
	filename string
	src      []byte

	pos       int
	line, col int

	Keywords *intern.Interner[[]byte, token.Kind]
	Idents   *intern.Interner[[]byte, token.Kind]
	Strings  *intern.Interner[[]byte, token.Kind]
}

// New creates a Lexer over src, pre-populating the keyword interner.
func New(a *arena.Arena, filename string, src []byte) (*Lexer, error) {
	l := &Lexer{
		arena:    a,
		filename: filename,
		src:      src,
		line:     1,
		col:      1,
		Keywords: intern.New[[]byte, token.Kind](a, fnv1a.Hash, bytes.Equal, intern.CopyNullTerminated),
		Idents:   intern.New[[]byte, token.Kind](a, fnv1a.Hash, bytes.Equal, intern.CopyNullTerminated),
		Strings:  intern.New[[]byte, token.Kind](a, fnv1a.Hash, bytes.Equal, intern.CopyNullTerminated),
	}
	for kw, kind := range token.Keywords {
		if _, err := l.Keywords.Intern([]byte(kw), kind); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Tokenize scans the entire source, appending any UnterminatedComment
// diagnostics to diags, and returns the token sequence ending in a single
// Eof token.
func (l *Lexer) Tokenize(diags *diag.List) ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := l.next(diags)
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == token.Eof {
			return out, nil
		}
	}
}

func (l *Lexer) isEOF() bool { return l.pos >= len(l.src) }

func (l *Lexer) current() byte {
	if l.isEOF() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.isEOF() {
		return
	}
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) here() span.Span {
	return span.Span{StartLine: l.line, StartCol: l.col, EndLine: l.line, EndCol: l.col}
}

func isAlpha(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }

// next scans and returns a single token, skipping leading whitespace and
// comments first.
func (l *Lexer) next(diags *diag.List) (token.Token, error) {
	for {
		if l.skipWhitespace() {
			continue
		}
		if l.current() == '/' && l.peekByte(1) == '/' {
			l.skipLineComment()
			continue
		}
		if l.current() == '/' && l.peekByte(1) == '*' {
			l.skipBlockComment(diags)
			continue
		}
		break
	}

	start := l.here()

	if l.isEOF() {
		return token.Token{Kind: token.Eof, Span: start}, nil
	}

	ch := l.current()

	switch {
	case isAlpha(ch):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch):
		return l.scanNumber(start)
	case ch == '"':
		return l.scanString(start)
	case ch == '\'':
		return l.scanChar(start)
	}

	if tok, ok := l.scanOperator(start); ok {
		return tok, nil
	}

	lexStart := l.pos
	l.advance()
	return token.Token{
		Kind:   token.Unknown,
		Span:   span.Join(start, l.here()),
		Lexeme: l.src[lexStart:l.pos],
	}, nil
}

func (l *Lexer) skipWhitespace() bool {
	moved := false
	for !l.isEOF() {
		switch l.current() {
		case ' ', '\t', '\r', '\n':
			l.advance()
			moved = true
		default:
			return moved
		}
	}
	return moved
}

func (l *Lexer) skipLineComment() {
	for !l.isEOF() && l.current() != '\n' {
		l.advance()
	}
}

// skipBlockComment consumes a /* ... */ comment. If EOF is reached before
// the closing "*/", it emits an UnterminatedComment diagnostic — per
// SPEC_FULL.md §12.1, this supplements the open question in spec.md §9
// rather than silently terminating.
func (l *Lexer) skipBlockComment(diags *diag.List) {
	start := l.here()
	l.advance() // '/'
	l.advance() // '*'
	for {
		if l.isEOF() {
			diags.Add(diag.Diagnostic{
				Kind:     diag.UnterminatedComment,
				Span:     span.Join(start, l.here()),
				Filename: l.filename,
				Message:  "unterminated block comment",
			})
			return
		}
		if l.current() == '*' && l.peekByte(1) == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentOrKeyword(start span.Span) (token.Token, error) {
	lexStart := l.pos
	for !l.isEOF() && isAlnum(l.current()) {
		l.advance()
	}
	lexeme := l.src[lexStart:l.pos]
	sp := span.Join(start, l.here())

	if rec, ok := l.Keywords.Peek(lexeme); ok {
		return token.Token{Kind: rec.Meta, Span: sp, Lexeme: lexeme, Rec: rec}, nil
	}
	rec, err := l.Idents.Intern(lexeme, token.Identifier)
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{Kind: token.Identifier, Span: sp, Lexeme: lexeme, Rec: rec}, nil
}

func (l *Lexer) scanNumber(start span.Span) (token.Token, error) {
	lexStart := l.pos
	for !l.isEOF() && isDigit(l.current()) {
		l.advance()
	}
	kind := token.IntLit
	if l.current() == '.' && isDigit(l.peekByte(1)) {
		kind = token.FloatLit
		l.advance() // '.'
		for !l.isEOF() && isDigit(l.current()) {
			l.advance()
		}
	}
	lexeme := l.src[lexStart:l.pos]
	return token.Token{Kind: kind, Span: span.Join(start, l.here()), Lexeme: lexeme}, nil
}

// decodeEscape decodes the byte following a backslash inside a string or
// char literal. Unknown escapes fall through to the escaped byte itself.
func decodeEscape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '\\':
		return '\\'
	case '"':
		return '"'
	case '\'':
		return '\''
	case '0':
		return 0
	default:
		return b
	}
}

func (l *Lexer) scanString(start span.Span) (token.Token, error) {
	lexStart := l.pos
	l.advance() // opening quote
	var buf []byte
	for !l.isEOF() && l.current() != '"' {
		if l.current() == '\\' && !l.isEOFAt(1) {
			l.advance()
			buf = append(buf, decodeEscape(l.current()))
			l.advance()
			continue
		}
		buf = append(buf, l.current())
		l.advance()
	}
	if !l.isEOF() {
		l.advance() // closing quote
	}
	sp := span.Join(start, l.here())
	rec, err := l.Strings.Intern(buf, token.StringLit)
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{Kind: token.StringLit, Span: sp, Lexeme: l.src[lexStart:l.pos], Rec: rec}, nil
}

func (l *Lexer) isEOFAt(offset int) bool { return l.pos+offset >= len(l.src) }

func (l *Lexer) scanChar(start span.Span) (token.Token, error) {
	lexStart := l.pos
	l.advance() // opening quote
	var codepoint rune
	if l.current() == '\\' && !l.isEOFAt(1) {
		l.advance()
		codepoint = rune(decodeEscape(l.current()))
		l.advance()
	} else if !l.isEOF() {
		r, w := utf8.DecodeRune(l.src[l.pos:])
		codepoint = r
		for i := 0; i < w; i++ {
			l.advance()
		}
	}
	if l.current() == '\'' {
		l.advance()
	}
	return token.Token{
		Kind:    token.CharLit,
		Span:    span.Join(start, l.here()),
		Lexeme:  l.src[lexStart:l.pos],
		CharVal: codepoint,
	}, nil
}

// twoByteOps is checked before oneByteOps so two-character operators are
// matched before their single-character prefix.
var twoByteOps = map[string]token.Kind{
	"++": token.PlusPlus, "--": token.MinusMinus,
	"+=": token.PlusEq, "-=": token.MinusEq, "*=": token.StarEq, "/=": token.SlashEq, "%=": token.PercentEq,
	"==": token.EqEq, "!=": token.BangEq, "<=": token.LtEq, ">=": token.GtEq,
	"&&": token.AmpAmp, "||": token.PipePipe, "->": token.Arrow,
}

var oneByteOps = map[byte]token.Kind{
	'=': token.Assign, '+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash, '%': token.Percent,
	'!': token.Bang, '&': token.Amp, '<': token.Lt, '>': token.Gt, '.': token.Dot,
	'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket, ',': token.Comma, ';': token.Semicolon,
	':': token.Colon, '|': token.Pipe,
}

func (l *Lexer) scanOperator(start span.Span) (token.Token, bool) {
	if !l.isEOF() && l.pos+1 < len(l.src) {
		two := string(l.src[l.pos : l.pos+2])
		if kind, ok := twoByteOps[two]; ok {
			lexStart := l.pos
			l.advance()
			l.advance()
			return token.Token{Kind: kind, Span: span.Join(start, l.here()), Lexeme: l.src[lexStart:l.pos]}, true
		}
	}
	if kind, ok := oneByteOps[l.current()]; ok {
		lexStart := l.pos
		l.advance()
		return token.Token{Kind: kind, Span: span.Join(start, l.here()), Lexeme: l.src[lexStart:l.pos]}, true
	}
	return token.Token{}, false
}
