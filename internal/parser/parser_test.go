// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser_test

import (
	"testing"

	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/ast"
	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/lexer"
	"github.com/playbymail/langc/internal/parser"
	"github.com/playbymail/langc/internal/span"
)

func parse(t *testing.T, src string) (*ast.Program, *diag.List) {
	t.Helper()
	a := arena.New(8192)
	l, err := lexer.New(a, "test.lc", []byte(src))
	if err != nil {
		t.Fatalf("lexer.New: %v", err)
	}
	diags := diag.NewList()
	toks, err := l.Tokenize(diags)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	p := parser.New(a, "test.lc", toks, diags)
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	return prog, diags
}

func TestMainFunctionParses(t *testing.T) {
	prog, diags := parse(t, `fn main() -> i64 { return 10; }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	if prog == nil {
		t.Fatalf("ParseProgram returned nil")
	}
	if len(prog.Decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(prog.Decls))
	}
	fd, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("decl 0 is %T, want *ast.FuncDecl", prog.Decls[0])
	}
	if len(fd.Body.Stmts) != 1 {
		t.Fatalf("got %d body stmts, want 1", len(fd.Body.Stmts))
	}
	ret, ok := fd.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("stmt 0 is %T, want *ast.ReturnStmt", fd.Body.Stmts[0])
	}
	lit, ok := ret.Value.(*ast.Literal)
	if !ok || lit.LitKind != ast.LitInt || lit.IntVal != 10 {
		t.Fatalf("return value = %+v, want IntLit(10)", ret.Value)
	}
}

func TestGlobalVariableDecl(t *testing.T) {
	prog, diags := parse(t, `x: i32 = 5;`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	vd, ok := prog.Decls[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("decl 0 is %T, want *ast.VarDecl", prog.Decls[0])
	}
	if vd.IsConst {
		t.Fatalf("IsConst = true, want false")
	}
	if _, ok := vd.TypeExpr.(*ast.NamedType); !ok {
		t.Fatalf("TypeExpr is %T, want *ast.NamedType", vd.TypeExpr)
	}
}

func TestConstGlobalVariableDecl(t *testing.T) {
	prog, diags := parse(t, `const k: i32 = 1 + 2 * 3;`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	vd := prog.Decls[0].(*ast.VarDecl)
	if !vd.IsConst {
		t.Fatalf("IsConst = false, want true")
	}
	bin, ok := vd.Init.(*ast.Binary)
	if !ok {
		t.Fatalf("Init is %T, want *ast.Binary", vd.Init)
	}
	// `1 + 2 * 3` — `*` binds tighter, so the top-level op must be `+`.
	if bin.Op.String() != "+" {
		t.Fatalf("top-level op = %v, want +", bin.Op)
	}
}

func TestFunctionCallArgCountMismatchStillParses(t *testing.T) {
	prog, diags := parse(t, `fn inc(a: i32) -> i32 { return 0; } val: i32 = inc(1, 2);`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", diags.Slice())
	}
	vd := prog.Decls[1].(*ast.VarDecl)
	call, ok := vd.Init.(*ast.Call)
	if !ok {
		t.Fatalf("Init is %T, want *ast.Call", vd.Init)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestArrayOfArrayInitializerList(t *testing.T) {
	prog, diags := parse(t, `var: i32[][] = {{1,2},{3,4}};`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	vd := prog.Decls[0].(*ast.VarDecl)
	arrType, ok := vd.TypeExpr.(*ast.ArrayType)
	if !ok {
		t.Fatalf("TypeExpr is %T, want *ast.ArrayType", vd.TypeExpr)
	}
	if arrType.SizeKnown {
		t.Fatalf("SizeKnown = true before sema's array-size inference ran")
	}
	initList, ok := vd.Init.(*ast.InitList)
	if !ok {
		t.Fatalf("Init is %T, want *ast.InitList", vd.Init)
	}
	if len(initList.Elems) != 2 {
		t.Fatalf("got %d outer elements, want 2", len(initList.Elems))
	}
	inner, ok := initList.Elems[0].(*ast.InitList)
	if !ok || len(inner.Elems) != 2 {
		t.Fatalf("elem 0 is %+v, want a 2-element nested InitList", initList.Elems[0])
	}
}

func TestParseErrorIsFirstErrorWins(t *testing.T) {
	_, diags := parse(t, `fn main() -> i64 { return 10 }`) // missing ';'
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want exactly 1", diags.Len())
	}
	if diags.Slice()[0].Kind != diag.UnexpectedToken {
		t.Fatalf("Kind=%v, want UnexpectedToken", diags.Slice()[0].Kind)
	}
}

func TestTrailingCommaInInitListIsDiagnosed(t *testing.T) {
	_, diags := parse(t, `x: i32[3] = {1, 2, 3,};`)
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want exactly 1", diags.Len())
	}
}

func TestIfElseIfChain(t *testing.T) {
	prog, diags := parse(t, `fn f() { if true { } else if false { } else { } }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	fd := prog.Decls[0].(*ast.FuncDecl)
	ifStmt := fd.Body.Stmts[0].(*ast.IfStmt)
	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("Else is %T, want *ast.IfStmt", ifStmt.Else)
	}
	if _, ok := elseIf.Else.(*ast.Block); !ok {
		t.Fatalf("elseIf.Else is %T, want *ast.Block", elseIf.Else)
	}
}

func TestForStatementAllClauses(t *testing.T) {
	prog, diags := parse(t, `fn f() { for (i: i32 = 0; i < 10; i = i + 1) { } }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	fd := prog.Decls[0].(*ast.FuncDecl)
	fs, ok := fd.Body.Stmts[0].(*ast.ForStmt)
	if !ok {
		t.Fatalf("stmt 0 is %T, want *ast.ForStmt", fd.Body.Stmts[0])
	}
	if fs.Init == nil || fs.Cond == nil || fs.Post == nil {
		t.Fatalf("ForStmt missing a clause: %+v", fs)
	}
	if _, ok := fs.Init.(*ast.VarDecl); !ok {
		t.Fatalf("Init is %T, want *ast.VarDecl", fs.Init)
	}
}

func TestForStatementAllClausesOptional(t *testing.T) {
	_, diags := parse(t, `fn f() { for (;;) { } }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
}

func TestAssignmentRequiresLvalue(t *testing.T) {
	_, diags := parse(t, `fn f() { 1 + 2 = 3; }`)
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want exactly 1", diags.Len())
	}
	if diags.Slice()[0].Kind != diag.NotLvalue {
		t.Fatalf("Kind=%v, want NotLvalue", diags.Slice()[0].Kind)
	}
}

func TestPointerAndFunctionTypeSyntax(t *testing.T) {
	// The '*' binds to the nearest preceding type atom — here the return
	// type — giving `fn(i32, i32) -> i32*`, a function type whose return
	// type is a pointer, not a pointer to a function type.
	prog, diags := parse(t, `cb: fn(i32, i32) -> i32* = 0;`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	vd := prog.Decls[0].(*ast.VarDecl)
	fnType, ok := vd.TypeExpr.(*ast.FuncType)
	if !ok {
		t.Fatalf("TypeExpr is %T, want *ast.FuncType", vd.TypeExpr)
	}
	if len(fnType.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fnType.Params))
	}
	if _, ok := fnType.Ret.(*ast.PointerType); !ok {
		t.Fatalf("Ret is %T, want *ast.PointerType", fnType.Ret)
	}
}

func TestSpanParentCoversChildren(t *testing.T) {
	prog, diags := parse(t, `fn main() -> i64 { return 10; }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	fd := prog.Decls[0].(*ast.FuncDecl)
	ret := fd.Body.Stmts[0].(*ast.ReturnStmt)
	if !span.Covers(fd.Span(), ret.Span()) {
		t.Fatalf("function span %+v does not cover return span %+v", fd.Span(), ret.Span())
	}
	if !span.Covers(ret.Span(), ret.Value.Span()) {
		t.Fatalf("return span %+v does not cover its value's span %+v", ret.Span(), ret.Value.Span())
	}
}
