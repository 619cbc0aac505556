// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser

import (
	"fmt"
	"strconv"

	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/ast"
	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/span"
	"github.com/playbymail/langc/internal/token"
	"github.com/playbymail/langc/langerrs"
)

// Parser consumes a finished token sequence and builds an AST. One parser
// serves one compilation unit and stops at the first syntax error.
type Parser struct {
	arena    *arena.Arena
	filename string
	toks     []token.Token
	pos      int
	diags    *diag.List

	// failed is set the moment the first syntax diagnostic is recorded.
	// Once it is set, fail records nothing further and consume/match stop
	// advancing, so enclosing productions unwind with nil results and the
	// original diagnostic is never shadowed.
	failed bool
}

// New creates a Parser over toks, recording diagnostics into diags.
func New(a *arena.Arena, filename string, toks []token.Token, diags *diag.List) *Parser {
	return &Parser{arena: a, filename: filename, toks: toks, diags: diags}
}

func alloc[T any](p *Parser) (*T, error) {
	n, err := ast.New[T](p.arena)
	if err != nil {
		return nil, langerrs.ErrParserOOM
	}
	return n, nil
}

func (p *Parser) current() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peek(offset int) token.Token {
	i := p.pos + offset
	if i < 0 {
		i = 0
	}
	if i >= len(p.toks) {
		i = len(p.toks) - 1
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

// fail records the first diagnostic of the parse and marks it failed.
// usePrev shifts the reported span to the previous token, for messages
// about a token that should have followed one that was actually present.
func (p *Parser) fail(kind diag.Kind, usePrev bool, message string) {
	if p.failed {
		return
	}
	p.failed = true
	sp := p.current().Span
	if usePrev && p.pos > 0 {
		sp = p.toks[p.pos-1].Span
	}
	p.diags.Add(diag.Diagnostic{Kind: kind, Span: sp, Filename: p.filename, Message: message})
}

// match advances and returns true if the current token's kind is one of
// kinds; otherwise it does nothing and returns false.
func (p *Parser) match(kinds ...token.Kind) bool {
	if p.failed {
		return false
	}
	cur := p.current().Kind
	for _, k := range kinds {
		if cur == k {
			p.advance()
			return true
		}
	}
	return false
}

func containsKind(k token.Kind, set []token.Kind) bool {
	for _, s := range set {
		if k == s {
			return true
		}
	}
	return false
}

// consume requires the current token to have kind, advancing past it on
// success. On failure it records UnexpectedToken or UnexpectedEof.
func (p *Parser) consume(kind token.Kind) (token.Token, bool) {
	if p.failed {
		return token.Token{}, false
	}
	if p.current().Kind == kind {
		return p.advance(), true
	}
	if p.current().Kind == token.Eof {
		p.fail(diag.UnexpectedEof, true, fmt.Sprintf("expected %v, found end of input", kind))
	} else {
		p.fail(diag.UnexpectedToken, false, fmt.Sprintf("expected %v, found %v", kind, p.current().Kind))
	}
	return token.Token{}, false
}

// ---- entry point --------------------------------------------------------

// ParseProgram parses the entire token sequence. On the first syntax
// error it returns (nil, nil); the diagnostic has already been recorded.
// A non-nil error means an arena allocation failed and the parse is
// aborted outright.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog, err := alloc[ast.Program](p)
	if err != nil {
		return nil, err
	}
	startSpan := p.current().Span

	for p.current().Kind != token.Eof && !p.failed {
		d, err := p.parseTopDecl()
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, nil
		}
		prog.Decls = append(prog.Decls, d)
	}
	if p.failed {
		return nil, nil
	}
	if p.current().Kind != token.Eof {
		p.fail(diag.TrailingTokens, false, fmt.Sprintf("unexpected trailing token %v after program", p.current().Kind))
		return nil, nil
	}
	prog.Sp = span.Join(startSpan, p.current().Span)
	return prog, nil
}

func (p *Parser) parseTopDecl() (ast.Node, error) {
	if p.failed {
		return nil, nil
	}
	switch p.current().Kind {
	case token.KwFn:
		return p.parseFunctionDecl()
	case token.KwConst, token.Identifier:
		vd, err := p.parseVariableDecl()
		if err != nil {
			return nil, err
		}
		if vd == nil {
			return nil, nil
		}
		if _, ok := p.consume(token.Semicolon); !ok {
			return nil, nil
		}
		return vd, nil
	default:
		p.fail(diag.UnexpectedToken, false, fmt.Sprintf("expected a declaration, found %v", p.current().Kind))
		return nil, nil
	}
}

// ---- declarations --------------------------------------------------------

// parseVariableDecl parses `[ 'const' ] Identifier ':' Type [ '=' (Expr |
// InitList) ]`, not including the trailing ';' — callers own that so the
// same production serves top-level decls, block-local decls, and a for
// loop's init clause.
func (p *Parser) parseVariableDecl() (*ast.VarDecl, error) {
	if p.failed {
		return nil, nil
	}
	n, err := alloc[ast.VarDecl](p)
	if err != nil {
		return nil, err
	}
	startSpan := p.current().Span
	if p.current().Kind == token.KwConst {
		p.advance()
		n.IsConst = true
	}
	nameTok, ok := p.consume(token.Identifier)
	if !ok {
		return nil, nil
	}
	n.Name = nameTok.Rec
	if _, ok := p.consume(token.Colon); !ok {
		return nil, nil
	}
	typeExpr, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if typeExpr == nil {
		return nil, nil
	}
	n.TypeExpr = typeExpr
	endSpan := typeExpr.Span()
	if p.current().Kind == token.Assign {
		p.advance()
		init, err := p.parseExprOrInitList()
		if err != nil {
			return nil, err
		}
		if init == nil {
			return nil, nil
		}
		n.Init = init
		endSpan = init.Span()
	}
	n.Sp = span.Join(startSpan, endSpan)
	return n, nil
}

func (p *Parser) parseExprOrInitList() (ast.Expr, error) {
	if p.current().Kind == token.LBrace {
		il, err := p.parseInitList()
		if il == nil {
			// Return an untyped nil so callers' nil checks see the failure.
			return nil, err
		}
		return il, nil
	}
	return p.parseExpr()
}

// parseInitList parses `'{' [ Elem { ',' Elem } ] '}'`. A trailing comma
// is a diagnostic, not silently accepted.
func (p *Parser) parseInitList() (*ast.InitList, error) {
	if p.failed {
		return nil, nil
	}
	n, err := alloc[ast.InitList](p)
	if err != nil {
		return nil, err
	}
	lb, ok := p.consume(token.LBrace)
	if !ok {
		return nil, nil
	}
	if p.current().Kind != token.RBrace {
		for {
			var elem ast.Expr
			var err error
			if p.current().Kind == token.LBrace {
				elem, err = p.parseInitList()
			} else {
				elem, err = p.parseExpr()
			}
			if err != nil {
				return nil, err
			}
			if elem == nil {
				return nil, nil
			}
			n.Elems = append(n.Elems, elem)
			if p.current().Kind == token.Comma {
				p.advance()
				if p.current().Kind == token.RBrace {
					p.fail(diag.UnexpectedToken, true, "trailing comma in initializer list")
					return nil, nil
				}
				continue
			}
			break
		}
	}
	rb, ok := p.consume(token.RBrace)
	if !ok {
		return nil, nil
	}
	n.Sp = span.Join(lb.Span, rb.Span)
	return n, nil
}

func (p *Parser) parseFunctionDecl() (*ast.FuncDecl, error) {
	n, err := alloc[ast.FuncDecl](p)
	if err != nil {
		return nil, err
	}
	fnTok, ok := p.consume(token.KwFn)
	if !ok {
		return nil, nil
	}
	nameTok, ok := p.consume(token.Identifier)
	if !ok {
		return nil, nil
	}
	n.Name = nameTok.Rec
	if _, ok := p.consume(token.LParen); !ok {
		return nil, nil
	}
	if p.current().Kind != token.RParen {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			if param == nil {
				return nil, nil
			}
			n.Params = append(n.Params, param)
			if p.current().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, ok := p.consume(token.RParen); !ok {
		return nil, nil
	}
	if p.current().Kind == token.Arrow {
		p.advance()
		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if ret == nil {
			return nil, nil
		}
		n.RetType = ret
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	n.Body = body
	n.Sp = span.Join(fnTok.Span, body.Span())
	return n, nil
}

func (p *Parser) parseParam() (*ast.Param, error) {
	n, err := alloc[ast.Param](p)
	if err != nil {
		return nil, err
	}
	nameTok, ok := p.consume(token.Identifier)
	if !ok {
		return nil, nil
	}
	n.Name = nameTok.Rec
	if _, ok := p.consume(token.Colon); !ok {
		return nil, nil
	}
	typeExpr, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if typeExpr == nil {
		return nil, nil
	}
	n.TypeExpr = typeExpr
	n.Sp = span.Join(nameTok.Span, typeExpr.Span())
	return n, nil
}

// ---- types ----------------------------------------------------------------

// parseType parses `TypeAtom { '*' | '[' [Expr] ']' }`, left-associative.
func (p *Parser) parseType() (ast.TypeExpr, error) {
	atom, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	if atom == nil {
		return nil, nil
	}
	for !p.failed {
		switch p.current().Kind {
		case token.Star:
			starTok := p.advance()
			n, err := alloc[ast.PointerType](p)
			if err != nil {
				return nil, err
			}
			n.Elem = atom
			n.Sp = span.Join(atom.Span(), starTok.Span)
			atom = n
		case token.LBracket:
			p.advance()
			var sizeExpr ast.Expr
			if p.current().Kind != token.RBracket {
				sizeExpr, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
				if sizeExpr == nil {
					return nil, nil
				}
			}
			rb, ok := p.consume(token.RBracket)
			if !ok {
				return nil, nil
			}
			n, err := alloc[ast.ArrayType](p)
			if err != nil {
				return nil, err
			}
			n.Elem = atom
			n.SizeExpr = sizeExpr
			n.SizeKnown = sizeExpr != nil
			n.Sp = span.Join(atom.Span(), rb.Span)
			atom = n
		default:
			return atom, nil
		}
	}
	return nil, nil
}

func (p *Parser) parseTypeAtom() (ast.TypeExpr, error) {
	if p.failed {
		return nil, nil
	}
	switch {
	case p.current().Kind == token.LParen:
		p.advance()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, nil
		}
		if _, ok := p.consume(token.RParen); !ok {
			return nil, nil
		}
		return inner, nil
	case p.current().Kind == token.KwFn:
		return p.parseFnType()
	case p.current().Kind.IsPrimitiveKeyword():
		tok := p.advance()
		n, err := alloc[ast.NamedType](p)
		if err != nil {
			return nil, err
		}
		n.Name = tok.Rec
		n.Sp = tok.Span
		return n, nil
	default:
		p.fail(diag.UnexpectedToken, false, fmt.Sprintf("expected a type, found %v", p.current().Kind))
		return nil, nil
	}
}

func (p *Parser) parseFnType() (*ast.FuncType, error) {
	n, err := alloc[ast.FuncType](p)
	if err != nil {
		return nil, err
	}
	fnTok, ok := p.consume(token.KwFn)
	if !ok {
		return nil, nil
	}
	if _, ok := p.consume(token.LParen); !ok {
		return nil, nil
	}
	endSpan := fnTok.Span
	if p.current().Kind != token.RParen {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if t == nil {
				return nil, nil
			}
			n.Params = append(n.Params, t)
			if p.current().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	rp, ok := p.consume(token.RParen)
	if !ok {
		return nil, nil
	}
	endSpan = rp.Span
	if p.current().Kind == token.Arrow {
		p.advance()
		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if ret == nil {
			return nil, nil
		}
		n.Ret = ret
		endSpan = ret.Span()
	}
	n.Sp = span.Join(fnTok.Span, endSpan)
	return n, nil
}

// ---- statements -------------------------------------------------------

func (p *Parser) parseStmt() (ast.Stmt, error) {
	if p.failed {
		return nil, nil
	}
	switch p.current().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwBreak:
		tok := p.advance()
		n, err := alloc[ast.BreakStmt](p)
		if err != nil {
			return nil, err
		}
		n.Sp = tok.Span
		if _, ok := p.consume(token.Semicolon); !ok {
			return nil, nil
		}
		return n, nil
	case token.KwContinue:
		tok := p.advance()
		n, err := alloc[ast.ContinueStmt](p)
		if err != nil {
			return nil, err
		}
		n.Sp = tok.Span
		if _, ok := p.consume(token.Semicolon); !ok {
			return nil, nil
		}
		return n, nil
	case token.KwConst:
		vd, err := p.parseVariableDecl()
		if err != nil {
			return nil, err
		}
		if vd == nil {
			return nil, nil
		}
		if _, ok := p.consume(token.Semicolon); !ok {
			return nil, nil
		}
		return vd, nil
	case token.Identifier:
		if p.peek(1).Kind == token.Colon {
			vd, err := p.parseVariableDecl()
			if err != nil {
				return nil, err
			}
			if vd == nil {
				return nil, nil
			}
			if _, ok := p.consume(token.Semicolon); !ok {
				return nil, nil
			}
			return vd, nil
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	n, err := alloc[ast.Block](p)
	if err != nil {
		return nil, err
	}
	lb, ok := p.consume(token.LBrace)
	if !ok {
		return nil, nil
	}
	for p.current().Kind != token.RBrace && p.current().Kind != token.Eof && !p.failed {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if stmt == nil {
			return nil, nil
		}
		n.Stmts = append(n.Stmts, stmt)
	}
	rb, ok := p.consume(token.RBrace)
	if !ok {
		return nil, nil
	}
	n.Sp = span.Join(lb.Span, rb.Span)
	return n, nil
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	n, err := alloc[ast.IfStmt](p)
	if err != nil {
		return nil, err
	}
	ifTok, ok := p.consume(token.KwIf)
	if !ok {
		return nil, nil
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, nil
	}
	n.Cond = cond
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if thenBlock == nil {
		return nil, nil
	}
	n.Then = thenBlock
	endSpan := thenBlock.Span()
	if p.current().Kind == token.KwElse {
		p.advance()
		if p.current().Kind == token.KwIf {
			elseIf, err := p.parseIfStmt()
			if err != nil {
				return nil, err
			}
			if elseIf == nil {
				return nil, nil
			}
			n.Else = elseIf
			endSpan = elseIf.Span()
		} else {
			elseBlock, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			if elseBlock == nil {
				return nil, nil
			}
			n.Else = elseBlock
			endSpan = elseBlock.Span()
		}
	}
	n.Sp = span.Join(ifTok.Span, endSpan)
	return n, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	n, err := alloc[ast.WhileStmt](p)
	if err != nil {
		return nil, err
	}
	whileTok, ok := p.consume(token.KwWhile)
	if !ok {
		return nil, nil
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, nil
	}
	n.Cond = cond
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	n.Body = body
	n.Sp = span.Join(whileTok.Span, body.Span())
	return n, nil
}

// parseForStmt parses `'for' '(' ForInit ';' [Expr] ';' [Expr] ')' Block`,
// where ForInit is an optional VariableDecl or Expr (the C-style
// three-clause loop the spec's §9 open question asks for in full).
func (p *Parser) parseForStmt() (*ast.ForStmt, error) {
	n, err := alloc[ast.ForStmt](p)
	if err != nil {
		return nil, err
	}
	forTok, ok := p.consume(token.KwFor)
	if !ok {
		return nil, nil
	}
	if _, ok := p.consume(token.LParen); !ok {
		return nil, nil
	}
	if p.current().Kind != token.Semicolon {
		if p.current().Kind == token.KwConst || (p.current().Kind == token.Identifier && p.peek(1).Kind == token.Colon) {
			vd, err := p.parseVariableDecl()
			if err != nil {
				return nil, err
			}
			if vd == nil {
				return nil, nil
			}
			n.Init = vd
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if e == nil {
				return nil, nil
			}
			es, err := alloc[ast.ExprStmt](p)
			if err != nil {
				return nil, err
			}
			es.X = e
			es.Sp = e.Span()
			n.Init = es
		}
	}
	if _, ok := p.consume(token.Semicolon); !ok {
		return nil, nil
	}
	if p.current().Kind != token.Semicolon {
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if cond == nil {
			return nil, nil
		}
		n.Cond = cond
	}
	if _, ok := p.consume(token.Semicolon); !ok {
		return nil, nil
	}
	if p.current().Kind != token.RParen {
		post, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, nil
		}
		n.Post = post
	}
	if _, ok := p.consume(token.RParen); !ok {
		return nil, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	n.Body = body
	n.Sp = span.Join(forTok.Span, body.Span())
	return n, nil
}

func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	n, err := alloc[ast.ReturnStmt](p)
	if err != nil {
		return nil, err
	}
	retTok, ok := p.consume(token.KwReturn)
	if !ok {
		return nil, nil
	}
	if p.current().Kind != token.Semicolon {
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if val == nil {
			return nil, nil
		}
		n.Value = val
	}
	semi, ok := p.consume(token.Semicolon)
	if !ok {
		return nil, nil
	}
	n.Sp = span.Join(retTok.Span, semi.Span)
	return n, nil
}

func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	n, err := alloc[ast.ExprStmt](p)
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, nil
	}
	n.X = e
	semi, ok := p.consume(token.Semicolon)
	if !ok {
		return nil, nil
	}
	n.Sp = span.Join(e.Span(), semi.Span)
	return n, nil
}

// ---- expressions --------------------------------------------------------

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

var assignOps = []token.Kind{token.Assign, token.PlusEq, token.MinusEq, token.StarEq, token.SlashEq, token.PercentEq}

// parseAssignment is right-associative and lowest precedence. The LHS must
// be a syntactic lvalue: identifier, subscript, or prefix dereference.
func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, nil
	}
	if p.failed || !containsKind(p.current().Kind, assignOps) {
		return left, nil
	}
	if !isSyntacticLvalue(left) {
		p.fail(diag.NotLvalue, false, "left side of assignment is not an lvalue")
		return nil, nil
	}
	opTok := p.advance()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	n, err := alloc[ast.Assignment](p)
	if err != nil {
		return nil, err
	}
	n.Op = opTok.Kind
	n.Target = left
	n.Value = value
	n.Sp = span.Join(left.Span(), value.Span())
	return n, nil
}

func isSyntacticLvalue(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Ident:
		return true
	case *ast.Subscript:
		return true
	case *ast.Unary:
		return v.Op == token.Star
	default:
		return false
	}
}

func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, nil
	}
	for !p.failed && containsKind(p.current().Kind, ops) {
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, nil
		}
		n, err := alloc[ast.Binary](p)
		if err != nil {
			return nil, err
		}
		n.Op = opTok.Kind
		n.Left = left
		n.Right = right
		n.Sp = span.Join(left.Span(), right.Span())
		left = n
	}
	return left, nil
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseLogicalAnd, token.PipePipe)
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseEquality, token.AmpAmp)
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.binaryLevel(p.parseRelational, token.EqEq, token.BangEq)
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.binaryLevel(p.parseAdditive, token.Lt, token.Gt, token.LtEq, token.GtEq)
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.binaryLevel(p.parseMultiplicative, token.Plus, token.Minus)
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.binaryLevel(p.parseUnary, token.Star, token.Slash, token.Percent)
}

var unaryPrefixOps = []token.Kind{token.Plus, token.Minus, token.Bang, token.Star, token.Amp, token.PlusPlus, token.MinusMinus}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.failed {
		return nil, nil
	}
	if containsKind(p.current().Kind, unaryPrefixOps) {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if operand == nil {
			return nil, nil
		}
		n, err := alloc[ast.Unary](p)
		if err != nil {
			return nil, err
		}
		n.Op = opTok.Kind
		n.Operand = operand
		n.Sp = span.Join(opTok.Span, operand.Span())
		return n, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	target, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, nil
	}
	for !p.failed {
		switch p.current().Kind {
		case token.LBracket:
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if idx == nil {
				return nil, nil
			}
			rb, ok := p.consume(token.RBracket)
			if !ok {
				return nil, nil
			}
			n, err := alloc[ast.Subscript](p)
			if err != nil {
				return nil, err
			}
			n.Target = target
			n.Index = idx
			n.Sp = span.Join(target.Span(), rb.Span)
			target = n
		case token.LParen:
			p.advance()
			var args []ast.Expr
			if p.current().Kind != token.RParen {
				for {
					a, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					if a == nil {
						return nil, nil
					}
					args = append(args, a)
					if p.current().Kind == token.Comma {
						p.advance()
						continue
					}
					break
				}
			}
			rp, ok := p.consume(token.RParen)
			if !ok {
				return nil, nil
			}
			n, err := alloc[ast.Call](p)
			if err != nil {
				return nil, err
			}
			n.Callee = target
			n.Args = args
			n.Sp = span.Join(target.Span(), rp.Span)
			target = n
		case token.PlusPlus, token.MinusMinus:
			opTok := p.advance()
			n, err := alloc[ast.Postfix](p)
			if err != nil {
				return nil, err
			}
			n.Op = opTok.Kind
			n.Operand = target
			n.Sp = span.Join(target.Span(), opTok.Span)
			target = n
		default:
			return target, nil
		}
	}
	return target, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	if p.failed {
		return nil, nil
	}
	tok := p.current()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		n, err := alloc[ast.Literal](p)
		if err != nil {
			return nil, err
		}
		n.LitKind = ast.LitInt
		n.IntVal = parseIntLiteral(tok.Lexeme)
		n.Sp = tok.Span
		return n, nil
	case token.FloatLit:
		p.advance()
		n, err := alloc[ast.Literal](p)
		if err != nil {
			return nil, err
		}
		n.LitKind = ast.LitFloat
		n.FloatVal = parseFloatLiteral(tok.Lexeme)
		n.Sp = tok.Span
		return n, nil
	case token.KwTrue, token.KwFalse:
		p.advance()
		n, err := alloc[ast.Literal](p)
		if err != nil {
			return nil, err
		}
		n.LitKind = ast.LitBool
		n.BoolVal = tok.Kind == token.KwTrue
		n.Sp = tok.Span
		return n, nil
	case token.CharLit:
		p.advance()
		n, err := alloc[ast.Literal](p)
		if err != nil {
			return nil, err
		}
		n.LitKind = ast.LitChar
		n.CharVal = tok.CharVal
		n.Sp = tok.Span
		return n, nil
	case token.StringLit:
		p.advance()
		n, err := alloc[ast.Literal](p)
		if err != nil {
			return nil, err
		}
		n.LitKind = ast.LitString
		n.StrVal = tok.Rec
		n.Sp = tok.Span
		return n, nil
	case token.Identifier:
		p.advance()
		n, err := alloc[ast.Ident](p)
		if err != nil {
			return nil, err
		}
		n.Name = tok.Rec
		n.Sp = tok.Span
		return n, nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if inner == nil {
			return nil, nil
		}
		if _, ok := p.consume(token.RParen); !ok {
			return nil, nil
		}
		return inner, nil
	case token.LBrace:
		return p.parseInitList()
	default:
		if tok.Kind == token.Eof {
			p.fail(diag.UnexpectedEof, true, "expected an expression, found end of input")
		} else {
			p.fail(diag.UnexpectedToken, false, fmt.Sprintf("expected an expression, found %v", tok.Kind))
		}
		return nil, nil
	}
}

func parseIntLiteral(lexeme []byte) int64 {
	v, _ := strconv.ParseInt(string(lexeme), 10, 64)
	return v
}

func parseFloatLiteral(lexeme []byte) float64 {
	v, _ := strconv.ParseFloat(string(lexeme), 64)
	return v
}
