// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package sema_test

import (
	"testing"

	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/ast"
	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/lexer"
	"github.com/playbymail/langc/internal/parser"
	"github.com/playbymail/langc/internal/sema"
	"github.com/playbymail/langc/internal/types"
)

func analyze(t *testing.T, src string) (*ast.Program, *diag.List) {
	t.Helper()
	a := arena.New(1 << 16)
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
	if prog == nil {
		t.Fatalf("ParseProgram returned nil; parse diagnostics: %+v", diags.Slice())
	}
	store, err := types.NewStore(a, l.Keywords)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	an := sema.New(a, "test.lc", store, diags)
	if err := an.Analyze(prog); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return prog, diags
}

// Scenario 1: `fn main() -> i64 { return 10; }` types the return
// expression as i64 (expected-type coerced), no diagnostics.
func TestMainReturnTypesAsI64(t *testing.T) {
	prog, diags := analyze(t, `fn main() -> i64 { return 10; }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	fd := prog.Decls[0].(*ast.FuncDecl)
	ret := fd.Body.Stmts[0].(*ast.ReturnStmt)
	lit := ret.Value.(*ast.Literal)
	if lit.Type() != fd.Typ.Ret {
		t.Fatalf("return literal type = %v, want %v", lit.Type(), fd.Typ.Ret)
	}
	if !lit.Type().IsInteger() || lit.Type().Prim != types.I64 {
		t.Fatalf("return literal type = %v, want i64", lit.Type())
	}
}

// Scenario 2: `x: i32 = "string";` emits exactly one TypeMismatch with
// expected=i32, actual=str.
func TestGlobalVarStringLiteralIsTypeMismatch(t *testing.T) {
	_, diags := analyze(t, `x: i32 = "string";`)
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want exactly 1: %+v", diags.Len(), diags.Slice())
	}
	d := diags.Slice()[0]
	if d.Kind != diag.TypeMismatch {
		t.Fatalf("Kind=%v, want TypeMismatch", d.Kind)
	}
	if d.Expected != "i32" || d.Actual != "str" {
		t.Fatalf("Expected/Actual = %q/%q, want i32/str", d.Expected, d.Actual)
	}
	if d.Message == "" {
		t.Fatalf("Message is empty, want a human-readable diagnostic message")
	}
}

// Scenario 3: `x: i32 = y;` emits exactly one Undeclared with name y.
func TestGlobalVarUndeclaredInitializer(t *testing.T) {
	_, diags := analyze(t, `x: i32 = y;`)
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want exactly 1: %+v", diags.Len(), diags.Slice())
	}
	d := diags.Slice()[0]
	if d.Kind != diag.Undeclared {
		t.Fatalf("Kind=%v, want Undeclared", d.Kind)
	}
	if d.Name != "y" {
		t.Fatalf("Name=%q, want y", d.Name)
	}
}

// Scenario 4: calling `inc` with two args against a one-parameter
// signature emits exactly one ArgCountMismatch with expected=1, actual=2,
// span covering the call.
func TestCallArgCountMismatch(t *testing.T) {
	prog, diags := analyze(t, `fn inc(a: i32) -> i32 { return 0; } val: i32 = inc(1, 2);`)
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want exactly 1: %+v", diags.Len(), diags.Slice())
	}
	d := diags.Slice()[0]
	if d.Kind != diag.ArgCountMismatch {
		t.Fatalf("Kind=%v, want ArgCountMismatch", d.Kind)
	}
	if d.ExpectedCount != 1 || d.ActualCount != 2 {
		t.Fatalf("ExpectedCount/ActualCount = %d/%d, want 1/2", d.ExpectedCount, d.ActualCount)
	}
	if d.Message == "" {
		t.Fatalf("Message is empty, want a human-readable diagnostic message")
	}
	vd := prog.Decls[1].(*ast.VarDecl)
	call := vd.Init.(*ast.Call)
	if d.Span != call.Sp {
		t.Fatalf("diagnostic span %+v does not cover the call span %+v", d.Span, call.Sp)
	}
}

// Scenario 5: a nested initializer list infers the declared type to
// i32[2][2], the initializer-list's resolved type is the identical
// pointer, and both size expressions are synthesized integer literals.
func TestArraySizeInference(t *testing.T) {
	prog, diags := analyze(t, `var: i32[][] = {{1,2},{3,4}};`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	vd := prog.Decls[0].(*ast.VarDecl)
	if vd.Typ == nil || vd.Typ.Kind != types.KindArray || !vd.Typ.ArraySized || vd.Typ.ArraySize != 2 {
		t.Fatalf("declared type = %v, want a sized array of size 2", vd.Typ)
	}
	if vd.Typ.Elem == nil || !vd.Typ.Elem.ArraySized || vd.Typ.Elem.ArraySize != 2 {
		t.Fatalf("declared elem type = %v, want a sized array of size 2", vd.Typ.Elem)
	}
	if vd.Typ != vd.Init.Type() {
		t.Fatalf("declared type %v and initializer type %v are not the identical pointer", vd.Typ, vd.Init.Type())
	}
	outerArr := vd.TypeExpr.(*ast.ArrayType)
	if !outerArr.SizeKnown {
		t.Fatalf("outer ArrayType.SizeKnown = false after inference")
	}
	outerLit, ok := outerArr.SizeExpr.(*ast.Literal)
	if !ok || outerLit.IntVal != 2 {
		t.Fatalf("outer SizeExpr = %+v, want synthesized IntLit(2)", outerArr.SizeExpr)
	}
	innerArr := outerArr.Elem.(*ast.ArrayType)
	if !innerArr.SizeKnown {
		t.Fatalf("inner ArrayType.SizeKnown = false after inference")
	}
	innerLit, ok := innerArr.SizeExpr.(*ast.Literal)
	if !ok || innerLit.IntVal != 2 {
		t.Fatalf("inner SizeExpr = %+v, want synthesized IntLit(2)", innerArr.SizeExpr)
	}
}

// Scenario 6: `const k: i32 = 1 + 2 * 3;` is accepted without diagnostics
// and its initializer folds to a constant: Init.Const() reports ConstInt 7.
func TestConstantFoldingOnGlobalConst(t *testing.T) {
	prog, diags := analyze(t, `const k: i32 = 1 + 2 * 3;`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	vd := prog.Decls[0].(*ast.VarDecl)
	cv, isConst := vd.Init.Const()
	if !isConst {
		t.Fatalf("Init.Const() reported not const")
	}
	if cv.Kind != ast.ConstInt || cv.IntVal != 7 {
		t.Fatalf("folded const = %+v, want ConstInt 7", cv)
	}
}

func TestBreakOutsideLoopIsDiagnosed(t *testing.T) {
	_, diags := analyze(t, `fn f() { break; }`)
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want exactly 1: %+v", diags.Len(), diags.Slice())
	}
	if diags.Slice()[0].Kind != diag.BreakContinueOutsideLoop {
		t.Fatalf("Kind=%v, want BreakContinueOutsideLoop", diags.Slice()[0].Kind)
	}
}

func TestBreakInsideLoopIsFine(t *testing.T) {
	_, diags := analyze(t, `fn f() { while true { break; } }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
}

func TestConstAssignIsDiagnosed(t *testing.T) {
	_, diags := analyze(t, `const k: i32 = 1; fn f() { k = 2; }`)
	if diags.Len() != 1 {
		t.Fatalf("Len()=%d, want exactly 1: %+v", diags.Len(), diags.Slice())
	}
	if diags.Slice()[0].Kind != diag.ConstAssign {
		t.Fatalf("Kind=%v, want ConstAssign", diags.Slice()[0].Kind)
	}
}

func TestImplicitWideningInsertsCast(t *testing.T) {
	prog, diags := analyze(t, `fn f() -> i64 { x: i32 = 5; return x; }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
	fd := prog.Decls[0].(*ast.FuncDecl)
	ret := fd.Body.Stmts[1].(*ast.ReturnStmt)
	cast, ok := ret.Value.(*ast.Cast)
	if !ok {
		t.Fatalf("return value is %T, want *ast.Cast", ret.Value)
	}
	if cast.Target != fd.Typ.Ret {
		t.Fatalf("cast target = %v, want the function's i64 return type", cast.Target)
	}
	if _, ok := cast.Inner.(*ast.Ident); !ok {
		t.Fatalf("cast.Inner is %T, want *ast.Ident", cast.Inner)
	}
}

func TestForwardFunctionCallIsFine(t *testing.T) {
	_, diags := analyze(t, `fn a() -> i32 { return b(); } fn b() -> i32 { return 1; }`)
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags.Slice())
	}
}
