// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package sema

import (
	"fmt"

	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/ast"
	"github.com/playbymail/langc/internal/diag"
	"github.com/playbymail/langc/internal/scope"
	"github.com/playbymail/langc/internal/span"
	"github.com/playbymail/langc/internal/token"
	"github.com/playbymail/langc/internal/types"
	"github.com/playbymail/langc/langerrs"
)

// Analyzer owns everything pass 1 and pass 2 share: the arena new cast and
// literal nodes are allocated from, the canonical type store, the scope
// chain, the diagnostic sink, and the small pieces of context (current
// function return type, current loop depth) the statement walkers need.
type Analyzer struct {
	arena    *arena.Arena
	filename string
	store    *types.Store
	diags    *diag.List
	scopes   *scope.Stack

	curRet    *types.Type
	loopDepth int
}

// New creates an Analyzer. store must already have the eight primitives
// interned (types.NewStore does this).
func New(a *arena.Arena, filename string, store *types.Store, diags *diag.List) *Analyzer {
	return &Analyzer{arena: a, filename: filename, store: store, diags: diags, scopes: scope.NewStack()}
}

// Analyze runs both passes over prog. A non-nil error means an arena
// allocation failed and the walk was aborted outright; semantic
// diagnostics are never reported through the error return, only through
// the Analyzer's diag.List (spec.md §7 — semantic errors accumulate, they
// never short-circuit the pass).
func (an *Analyzer) Analyze(prog *ast.Program) error {
	for _, d := range prog.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			if err := an.declareFuncSignature(fd); err != nil {
				return err
			}
		}
	}
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *ast.VarDecl:
			if err := an.checkVarDecl(n); err != nil {
				return err
			}
		case *ast.FuncDecl:
			if err := an.checkFuncBody(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// ---- pass 1 --------------------------------------------------------------

func (an *Analyzer) declareFuncSignature(fd *ast.FuncDecl) error {
	retT := an.store.Primitive(types.Void)
	if fd.RetType != nil {
		t, err := an.resolveTypeExpr(fd.RetType)
		if err != nil {
			return err
		}
		if t != nil {
			retT = t
		}
	}
	paramTypes := make([]*types.Type, 0, len(fd.Params))
	for _, p := range fd.Params {
		t, err := an.resolveTypeExpr(p.TypeExpr)
		if err != nil {
			return err
		}
		p.Typ = t
		paramTypes = append(paramTypes, t)
	}
	fnT, err := an.store.Function(retT, paramTypes)
	if err != nil {
		return langerrs.ErrSemaOOM
	}
	fd.Typ = fnT
	if _, ok := an.scopes.Define(fd.Name, fnT, scope.Function, fd.Sp); !ok {
		an.addDiag(diag.Redeclaration, fd.Sp, nameOf(fd.Name), "", "")
	}
	return nil
}

// ---- pass 2: declarations -------------------------------------------------

func (an *Analyzer) checkFuncBody(fd *ast.FuncDecl) error {
	an.scopes.Push(len(fd.Params)+4, scope.Identifiers)
	defer an.scopes.Pop()
	for _, p := range fd.Params {
		if p.Name == nil {
			continue // anonymous parameters produce no symbol (spec.md §4.8)
		}
		if _, ok := an.scopes.Define(p.Name, p.Typ, scope.Variable, p.Sp); !ok {
			an.addDiag(diag.Redeclaration, p.Sp, nameOf(p.Name), "", "")
		}
	}
	prevRet := an.curRet
	if fd.Typ != nil {
		an.curRet = fd.Typ.Ret
	} else {
		an.curRet = an.store.Primitive(types.Void)
	}
	err := an.checkBlock(fd.Body)
	an.curRet = prevRet
	return err
}

// checkVarDecl handles both global and block-local variable declarations;
// the only difference between them (global bodies may forward-reference
// functions but not later globals) is already enforced by Analyze's two
// passes calling this once, in source order, for whichever scope is
// current.
func (an *Analyzer) checkVarDecl(vd *ast.VarDecl) error {
	typ, err := an.resolveTypeExpr(vd.TypeExpr)
	if err != nil {
		return err
	}
	vd.Typ = typ
	sym, ok := an.scopes.Define(vd.Name, typ, scope.Variable, vd.Sp)
	if !ok {
		an.addDiag(diag.Redeclaration, vd.Sp, nameOf(vd.Name), "", "")
	}
	sym.Const = vd.IsConst

	if vd.Init == nil {
		return nil
	}
	init, err := an.checkExpr(vd.Init, typ)
	if err != nil {
		return err
	}
	initT := init.Type()

	if arr, isArr := vd.TypeExpr.(*ast.ArrayType); isArr && !arr.SizeKnown && initT != nil && initT.Kind == types.KindArray {
		if err := an.inferArraySizes(vd.TypeExpr, initT); err != nil {
			return err
		}
		typ = initT
		vd.Typ = typ
		sym.Typ = typ
	} else if typ != nil {
		init, err = an.maybeCast(init, typ)
		if err != nil {
			return err
		}
	}
	vd.Init = init
	sym.MarkInitialized()
	if vd.IsConst {
		if cv, isConst := init.Const(); isConst {
			sym.HasComputedValue = true
			sym.ConstVal = cv
		}
	}
	return nil
}

// inferArraySizes rewrites te's (and every nested element type's) SizeExpr
// to a synthesized integer-literal node once inferred's corresponding rank
// has a concrete size, per spec.md §4.8's array-size inference rule.
func (an *Analyzer) inferArraySizes(te ast.TypeExpr, inferred *types.Type) error {
	arrTE, ok := te.(*ast.ArrayType)
	if !ok || inferred == nil || inferred.Kind != types.KindArray {
		return nil
	}
	if !arrTE.SizeKnown {
		lit, err := ast.New[ast.Literal](an.arena)
		if err != nil {
			return langerrs.ErrSemaOOM
		}
		lit.LitKind = ast.LitInt
		lit.IntVal = inferred.ArraySize
		lit.Sp = arrTE.Sp
		lit.SetType(an.store.Primitive(types.I64))
		lit.SetConst(ast.ConstValue{Kind: ast.ConstInt, IntVal: inferred.ArraySize})
		arrTE.SizeExpr = lit
		arrTE.SizeKnown = true
	}
	return an.inferArraySizes(arrTE.Elem, inferred.Elem)
}

// ---- types ----------------------------------------------------------------

func (an *Analyzer) resolveTypeExpr(te ast.TypeExpr) (*types.Type, error) {
	switch n := te.(type) {
	case nil:
		return an.store.Primitive(types.Void), nil
	case *ast.NamedType:
		t := an.store.ResolveNamed(n.Name)
		if t == nil {
			an.addDiag(diag.UnknownType, n.Sp, nameOf(n.Name), "", "")
			return nil, nil
		}
		return t, nil
	case *ast.PointerType:
		elem, err := an.resolveTypeExpr(n.Elem)
		if err != nil || elem == nil {
			return nil, err
		}
		t, err := an.store.Pointer(elem)
		if err != nil {
			return nil, langerrs.ErrSemaOOM
		}
		return t, nil
	case *ast.ArrayType:
		elem, err := an.resolveTypeExpr(n.Elem)
		if err != nil || elem == nil {
			return nil, err
		}
		if n.SizeExpr == nil {
			t, err := an.store.Array(elem, 0, false)
			if err != nil {
				return nil, langerrs.ErrSemaOOM
			}
			return t, nil
		}
		sizeExpr, err := an.checkExpr(n.SizeExpr, an.store.Primitive(types.I64))
		if err != nil {
			return nil, err
		}
		n.SizeExpr = sizeExpr
		cv, isConst := sizeExpr.Const()
		if !isConst || cv.Kind != ast.ConstInt {
			an.addDiag(diag.NotConst, n.Sp, "", "", "")
			t, err := an.store.Array(elem, 0, false)
			if err != nil {
				return nil, langerrs.ErrSemaOOM
			}
			return t, nil
		}
		t, err := an.store.Array(elem, cv.IntVal, true)
		if err != nil {
			return nil, langerrs.ErrSemaOOM
		}
		n.SizeKnown = true
		return t, nil
	case *ast.FuncType:
		var ret *types.Type
		if n.Ret != nil {
			r, err := an.resolveTypeExpr(n.Ret)
			if err != nil {
				return nil, err
			}
			ret = r
		}
		params := make([]*types.Type, 0, len(n.Params))
		for _, pt := range n.Params {
			p, err := an.resolveTypeExpr(pt)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		t, err := an.store.Function(ret, params)
		if err != nil {
			return nil, langerrs.ErrSemaOOM
		}
		return t, nil
	}
	return nil, nil
}

// ---- statements -------------------------------------------------------

func (an *Analyzer) checkBlock(b *ast.Block) error {
	an.scopes.Push(8, scope.Identifiers)
	defer an.scopes.Pop()
	for _, s := range b.Stmts {
		if err := an.checkStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (an *Analyzer) checkStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Block:
		return an.checkBlock(n)
	case *ast.IfStmt:
		return an.checkIfStmt(n)
	case *ast.WhileStmt:
		return an.checkWhileStmt(n)
	case *ast.ForStmt:
		return an.checkForStmt(n)
	case *ast.ReturnStmt:
		return an.checkReturnStmt(n)
	case *ast.BreakStmt:
		if an.loopDepth == 0 {
			an.addDiag(diag.BreakContinueOutsideLoop, n.Sp, "", "", "")
		}
		return nil
	case *ast.ContinueStmt:
		if an.loopDepth == 0 {
			an.addDiag(diag.BreakContinueOutsideLoop, n.Sp, "", "", "")
		}
		return nil
	case *ast.ExprStmt:
		e, err := an.checkExpr(n.X, nil)
		if err != nil {
			return err
		}
		n.X = e
		return nil
	case *ast.VarDecl:
		return an.checkVarDecl(n)
	}
	return nil
}

func (an *Analyzer) checkIfStmt(n *ast.IfStmt) error {
	boolT := an.store.Primitive(types.Bool)
	cond, err := an.checkExpr(n.Cond, boolT)
	if err != nil {
		return err
	}
	if t := cond.Type(); t != nil && !t.IsBool() {
		an.addDiagTypeMismatch(cond.Span(), boolT, t)
	}
	n.Cond = cond
	if err := an.checkBlock(n.Then); err != nil {
		return err
	}
	switch e := n.Else.(type) {
	case *ast.Block:
		return an.checkBlock(e)
	case *ast.IfStmt:
		return an.checkIfStmt(e)
	}
	return nil
}

func (an *Analyzer) checkWhileStmt(n *ast.WhileStmt) error {
	boolT := an.store.Primitive(types.Bool)
	cond, err := an.checkExpr(n.Cond, boolT)
	if err != nil {
		return err
	}
	if t := cond.Type(); t != nil && !t.IsBool() {
		an.addDiagTypeMismatch(cond.Span(), boolT, t)
	}
	n.Cond = cond
	an.loopDepth++
	err = an.checkBlock(n.Body)
	an.loopDepth--
	return err
}

func (an *Analyzer) checkForStmt(n *ast.ForStmt) error {
	an.scopes.Push(4, scope.Identifiers)
	defer an.scopes.Pop()
	if n.Init != nil {
		if err := an.checkStmt(n.Init); err != nil {
			return err
		}
	}
	if n.Cond != nil {
		boolT := an.store.Primitive(types.Bool)
		cond, err := an.checkExpr(n.Cond, boolT)
		if err != nil {
			return err
		}
		if t := cond.Type(); t != nil && !t.IsBool() {
			an.addDiagTypeMismatch(cond.Span(), boolT, t)
		}
		n.Cond = cond
	}
	if n.Post != nil {
		post, err := an.checkExpr(n.Post, nil)
		if err != nil {
			return err
		}
		n.Post = post
	}
	an.loopDepth++
	err := an.checkBlock(n.Body)
	an.loopDepth--
	return err
}

func (an *Analyzer) checkReturnStmt(n *ast.ReturnStmt) error {
	wantVoid := an.curRet == nil || an.curRet.IsVoid()
	if n.Value == nil {
		if !wantVoid {
			an.addDiag(diag.ReturnMismatch, n.Sp, "", typeString(an.curRet), "void")
		}
		return nil
	}
	if wantVoid {
		an.addDiag(diag.ReturnMismatch, n.Sp, "", "void", "")
		val, err := an.checkExpr(n.Value, nil)
		n.Value = val
		return err
	}
	val, err := an.checkExpr(n.Value, an.curRet)
	if err != nil {
		return err
	}
	val, err = an.maybeCast(val, an.curRet)
	if err != nil {
		return err
	}
	n.Value = val
	return nil
}

// ---- expressions --------------------------------------------------------

func (an *Analyzer) checkExpr(e ast.Expr, expected *types.Type) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch n := e.(type) {
	case *ast.Literal:
		return an.checkLiteral(n, expected)
	case *ast.Ident:
		return an.checkIdent(n, expected)
	case *ast.Call:
		return an.checkCall(n, expected)
	case *ast.Subscript:
		return an.checkSubscript(n, expected)
	case *ast.Unary:
		return an.checkUnary(n, expected)
	case *ast.Postfix:
		return an.checkPostfix(n, expected)
	case *ast.Binary:
		return an.checkBinary(n, expected)
	case *ast.Assignment:
		return an.checkAssignment(n, expected)
	case *ast.InitList:
		return an.checkInitList(n, expected)
	case *ast.Cast:
		return n, nil
	}
	return e, nil
}

func (an *Analyzer) checkLiteral(n *ast.Literal, expected *types.Type) (ast.Expr, error) {
	switch n.LitKind {
	case ast.LitInt:
		t := an.store.Primitive(types.I32)
		if expected != nil && (expected.IsInteger() || expected.IsFloat()) {
			t = expected
		}
		n.SetType(t)
		if t.IsFloat() {
			n.SetConst(ast.ConstValue{Kind: ast.ConstFloat, FloatVal: float64(n.IntVal)})
		} else {
			n.SetConst(ast.ConstValue{Kind: ast.ConstInt, IntVal: n.IntVal})
		}
	case ast.LitFloat:
		t := an.store.Primitive(types.F64)
		if expected != nil && expected.IsFloat() {
			t = expected
		}
		n.SetType(t)
		n.SetConst(ast.ConstValue{Kind: ast.ConstFloat, FloatVal: n.FloatVal})
	case ast.LitBool:
		n.SetType(an.store.Primitive(types.Bool))
		n.SetConst(ast.ConstValue{Kind: ast.ConstBool, BoolVal: n.BoolVal})
	case ast.LitChar:
		n.SetType(an.store.Primitive(types.Char))
		n.SetConst(ast.ConstValue{Kind: ast.ConstChar, CharVal: n.CharVal})
	case ast.LitString:
		n.SetType(an.store.Primitive(types.Str))
		n.SetConst(ast.ConstValue{Kind: ast.ConstString, StrVal: n.StrVal})
	}
	return n, nil
}

func (an *Analyzer) checkIdent(n *ast.Ident, expected *types.Type) (ast.Expr, error) {
	sym, ok := an.scopes.Lookup(n.Name, scope.Identifiers)
	if !ok {
		an.addDiag(diag.Undeclared, n.Sp, nameOf(n.Name), "", "")
		return n, nil
	}
	sym.MarkUsed()
	n.SetType(sym.Typ)
	if sym.Const && sym.HasComputedValue {
		n.SetConst(sym.ConstVal)
	}
	return n, nil
}

func (an *Analyzer) checkCall(n *ast.Call, expected *types.Type) (ast.Expr, error) {
	callee, err := an.checkExpr(n.Callee, nil)
	if err != nil {
		return nil, err
	}
	n.Callee = callee
	ct := callee.Type()
	if ct == nil || ct.Kind != types.KindFunction {
		an.addDiag(diag.NotCallable, n.Sp, "", "", "")
		for i, a := range n.Args {
			checked, err := an.checkExpr(a, nil)
			if err != nil {
				return nil, err
			}
			n.Args[i] = checked
		}
		return n, nil
	}
	if len(n.Args) != len(ct.Params) {
		an.diags.Add(diag.Diagnostic{
			Kind: diag.ArgCountMismatch, Span: n.Sp, Filename: an.filename,
			ExpectedCount: len(ct.Params), ActualCount: len(n.Args),
			Message: fmt.Sprintf("expected %d argument(s), found %d", len(ct.Params), len(n.Args)),
		})
	}
	for i := range n.Args {
		var paramT *types.Type
		if i < len(ct.Params) {
			paramT = ct.Params[i]
		}
		argExpr, err := an.checkExpr(n.Args[i], paramT)
		if err != nil {
			return nil, err
		}
		if paramT != nil {
			argExpr, err = an.maybeCast(argExpr, paramT)
			if err != nil {
				return nil, err
			}
		}
		n.Args[i] = argExpr
	}
	n.SetType(ct.Ret)
	return n, nil
}

func (an *Analyzer) checkSubscript(n *ast.Subscript, expected *types.Type) (ast.Expr, error) {
	target, err := an.checkExpr(n.Target, nil)
	if err != nil {
		return nil, err
	}
	n.Target = target
	tt := target.Type()
	var elemT *types.Type
	if tt == nil || (tt.Kind != types.KindArray && tt.Kind != types.KindPointer) {
		an.addDiag(diag.NotIndexable, n.Sp, "", "", "")
	} else {
		elemT = tt.Elem
	}
	i64T := an.store.Primitive(types.I64)
	idx, err := an.checkExpr(n.Index, i64T)
	if err != nil {
		return nil, err
	}
	if idxT := idx.Type(); idxT != nil && !idxT.IsInteger() {
		an.addDiagTypeMismatch(idx.Span(), i64T, idxT)
	} else if idxT != nil && idxT != i64T {
		idx, err = an.maybeCast(idx, i64T)
		if err != nil {
			return nil, err
		}
	}
	n.Index = idx
	n.SetType(elemT)
	return n, nil
}

var unopExpectBool = "bool"
var unopExpectNumeric = "numeric"
var unopExpectPointer = "pointer"
var unopExpectNumericLvalue = "numeric lvalue"

func (an *Analyzer) checkUnary(n *ast.Unary, expected *types.Type) (ast.Expr, error) {
	switch n.Op {
	case token.Bang:
		operand, err := an.checkExpr(n.Operand, an.store.Primitive(types.Bool))
		if err != nil {
			return nil, err
		}
		n.Operand = operand
		boolT := an.store.Primitive(types.Bool)
		if t := operand.Type(); t != nil && !t.IsBool() {
			an.addDiag(diag.UnopMismatch, n.Sp, "", unopExpectBool, typeString(t))
		}
		n.SetType(boolT)
		if cv, ok := operand.Const(); ok && cv.Kind == ast.ConstBool {
			n.SetConst(ast.ConstValue{Kind: ast.ConstBool, BoolVal: !cv.BoolVal})
		}
	case token.Plus, token.Minus:
		hint := expected
		if hint != nil && !hint.IsNumeric() {
			hint = nil
		}
		operand, err := an.checkExpr(n.Operand, hint)
		if err != nil {
			return nil, err
		}
		n.Operand = operand
		t := operand.Type()
		if t == nil || !t.IsNumeric() {
			an.addDiag(diag.UnopMismatch, n.Sp, "", unopExpectNumeric, typeString(t))
			n.SetType(t)
		} else {
			n.SetType(t)
			if cv, ok := operand.Const(); ok {
				n.SetConst(foldUnaryArith(n.Op, t, cv))
			}
		}
	case token.Amp:
		operand, err := an.checkExpr(n.Operand, nil)
		if err != nil {
			return nil, err
		}
		n.Operand = operand
		if !isSemanticLvalue(operand) {
			an.addDiag(diag.NotLvalue, n.Sp, "", "", "")
		}
		pt, err := an.store.Pointer(operand.Type())
		if err != nil {
			return nil, langerrs.ErrSemaOOM
		}
		n.SetType(pt)
	case token.Star:
		operand, err := an.checkExpr(n.Operand, nil)
		if err != nil {
			return nil, err
		}
		n.Operand = operand
		t := operand.Type()
		if t == nil || t.Kind != types.KindPointer {
			an.addDiag(diag.UnopMismatch, n.Sp, "", unopExpectPointer, typeString(t))
		} else {
			n.SetType(t.Elem)
		}
	case token.PlusPlus, token.MinusMinus:
		operand, err := an.checkExpr(n.Operand, nil)
		if err != nil {
			return nil, err
		}
		n.Operand = operand
		t := operand.Type()
		if t == nil || !t.IsNumeric() || !isSemanticLvalue(operand) {
			an.addDiag(diag.UnopMismatch, n.Sp, "", unopExpectNumericLvalue, typeString(t))
		}
		n.SetType(t)
	}
	return n, nil
}

func (an *Analyzer) checkPostfix(n *ast.Postfix, expected *types.Type) (ast.Expr, error) {
	operand, err := an.checkExpr(n.Operand, nil)
	if err != nil {
		return nil, err
	}
	n.Operand = operand
	t := operand.Type()
	if t == nil || !t.IsNumeric() || !isSemanticLvalue(operand) {
		an.addDiag(diag.UnopMismatch, n.Sp, "", unopExpectNumericLvalue, typeString(t))
	}
	n.SetType(t)
	return n, nil
}

func (an *Analyzer) checkBinary(n *ast.Binary, expected *types.Type) (ast.Expr, error) {
	switch n.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		left, err := an.checkExpr(n.Left, expected)
		if err != nil {
			return nil, err
		}
		lt := left.Type()
		hint := lt
		if hint != nil && !hint.IsNumeric() {
			hint = nil
		}
		right, err := an.checkExpr(n.Right, hint)
		if err != nil {
			return nil, err
		}
		rt := right.Type()
		if lt == nil || rt == nil || !lt.IsNumeric() || !rt.IsNumeric() {
			an.addDiag(diag.BinopMismatch, n.Sp, "", unopExpectNumeric, typeString(lt)+", "+typeString(rt))
			n.Left, n.Right = left, right
			return n, nil
		}
		common := an.unify(lt, rt)
		left, err = an.maybeCast(left, common)
		if err != nil {
			return nil, err
		}
		right, err = an.maybeCast(right, common)
		if err != nil {
			return nil, err
		}
		n.Left, n.Right = left, right
		n.SetType(common)
		if lc, lok := left.Const(); lok {
			if rc, rok := right.Const(); rok {
				if folded, ok := foldBinaryArith(n.Op, common, lc, rc); ok {
					n.SetConst(folded)
				}
			}
		}
	case token.EqEq, token.BangEq, token.Lt, token.Gt, token.LtEq, token.GtEq:
		left, err := an.checkExpr(n.Left, nil)
		if err != nil {
			return nil, err
		}
		right, err := an.checkExpr(n.Right, left.Type())
		if err != nil {
			return nil, err
		}
		lt, rt := left.Type(), right.Type()
		switch {
		case lt != nil && rt != nil && lt.IsNumeric() && rt.IsNumeric():
			common := an.unify(lt, rt)
			left, err = an.maybeCast(left, common)
			if err != nil {
				return nil, err
			}
			right, err = an.maybeCast(right, common)
			if err != nil {
				return nil, err
			}
		case lt != nil && rt != nil && lt.Kind == types.KindPointer && rt.Kind == types.KindPointer:
			if lt != rt {
				an.addDiag(diag.BinopMismatch, n.Sp, "", typeString(lt), typeString(rt))
			}
		case lt != nil && rt != nil && lt != rt:
			an.addDiag(diag.BinopMismatch, n.Sp, "", typeString(lt), typeString(rt))
		}
		n.Left, n.Right = left, right
		n.SetType(an.store.Primitive(types.Bool))
		if lc, lok := left.Const(); lok {
			if rc, rok := right.Const(); rok {
				if folded, ok := foldComparison(n.Op, lc, rc); ok {
					n.SetConst(folded)
				}
			}
		}
	case token.AmpAmp, token.PipePipe:
		boolT := an.store.Primitive(types.Bool)
		left, err := an.checkExpr(n.Left, boolT)
		if err != nil {
			return nil, err
		}
		right, err := an.checkExpr(n.Right, boolT)
		if err != nil {
			return nil, err
		}
		if lt := left.Type(); lt != nil && !lt.IsBool() {
			an.addDiag(diag.BinopMismatch, n.Sp, "", unopExpectBool, typeString(lt))
		}
		if rt := right.Type(); rt != nil && !rt.IsBool() {
			an.addDiag(diag.BinopMismatch, n.Sp, "", unopExpectBool, typeString(rt))
		}
		n.Left, n.Right = left, right
		n.SetType(boolT)
		if lc, lok := left.Const(); lok && lc.Kind == ast.ConstBool {
			if rc, rok := right.Const(); rok && rc.Kind == ast.ConstBool {
				var v bool
				if n.Op == token.AmpAmp {
					v = lc.BoolVal && rc.BoolVal
				} else {
					v = lc.BoolVal || rc.BoolVal
				}
				n.SetConst(ast.ConstValue{Kind: ast.ConstBool, BoolVal: v})
			}
		}
	}
	return n, nil
}

func (an *Analyzer) checkAssignment(n *ast.Assignment, expected *types.Type) (ast.Expr, error) {
	target, err := an.checkExpr(n.Target, nil)
	if err != nil {
		return nil, err
	}
	n.Target = target
	if !isSemanticLvalue(target) {
		an.addDiag(diag.NotLvalue, n.Sp, "", "", "")
	}
	targetT := target.Type()
	value, err := an.checkExpr(n.Value, targetT)
	if err != nil {
		return nil, err
	}
	if targetT != nil {
		value, err = an.maybeCast(value, targetT)
		if err != nil {
			return nil, err
		}
	}
	n.Value = value
	if id, ok := target.(*ast.Ident); ok {
		if sym, ok2 := an.scopes.Lookup(id.Name, scope.Identifiers); ok2 && sym.Const {
			an.addDiag(diag.ConstAssign, n.Sp, nameOf(id.Name), "", "")
		}
	}
	n.SetType(targetT)
	return n, nil
}

func (an *Analyzer) checkInitList(il *ast.InitList, expected *types.Type) (ast.Expr, error) {
	if expected == nil {
		an.addDiag(diag.UnexpectedList, il.Sp, "", "", "")
		return il, nil
	}
	if expected.Kind != types.KindArray {
		an.addDiag(diag.ExpectedArray, il.Sp, "", typeString(expected), "")
		return il, nil
	}
	expectedRank := expected.Rank()
	initRank := initListRank(il)
	if expectedRank != initRank {
		an.addDiag(diag.DimensionMismatch, il.Sp, "", expectedRank2Str(expectedRank), expectedRank2Str(initRank))
		return il, nil
	}
	if expected.ArraySized && int64(len(il.Elems)) != expected.ArraySize {
		an.diags.Add(diag.Diagnostic{
			Kind: diag.ArraySizeMismatch, Span: il.Sp, Filename: an.filename,
			ExpectedCount: int(expected.ArraySize), ActualCount: len(il.Elems),
			Message: fmt.Sprintf("expected %d element(s), found %d", int(expected.ArraySize), len(il.Elems)),
		})
	}
	elemExpected := expected.Elem
	var elemType *types.Type
	for i, e := range il.Elems {
		checked, err := an.checkExpr(e, elemExpected)
		if err != nil {
			return nil, err
		}
		at := checked.Type()
		if at != nil {
			if elemType == nil {
				elemType = at
			} else if at != elemType {
				if an.canImplicitCast(elemType, at) {
					checked, err = an.maybeCast(checked, elemType)
					if err != nil {
						return nil, err
					}
				} else {
					an.addDiagTypeMismatch(checked.Span(), elemType, at)
				}
			}
		}
		il.Elems[i] = checked
	}
	if elemType == nil {
		elemType = elemExpected
	}
	arrType, err := an.store.Array(elemType, int64(len(il.Elems)), true)
	if err != nil {
		return nil, langerrs.ErrSemaOOM
	}
	il.SetType(arrType)
	return il, nil
}

func initListRank(il *ast.InitList) int {
	n := 1
	cur := il
	for len(cur.Elems) > 0 {
		inner, ok := cur.Elems[0].(*ast.InitList)
		if !ok {
			break
		}
		n++
		cur = inner
	}
	return n
}

func expectedRank2Str(r int) string {
	return itoaSmall(r)
}

func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ---- casting & unification ------------------------------------------------

// maybeCast returns e unchanged if its type already is target; otherwise,
// if the implicit-cast policy permits it, wraps e in a synthesized Cast
// node (folding the value through if e is const); otherwise emits
// TypeMismatch and returns e unchanged.
func (an *Analyzer) maybeCast(e ast.Expr, target *types.Type) (ast.Expr, error) {
	if e == nil || target == nil {
		return e, nil
	}
	t := e.Type()
	if t == nil || t == target {
		return e, nil
	}
	if !an.canImplicitCast(target, t) {
		an.addDiagTypeMismatch(e.Span(), target, t)
		return e, nil
	}
	cast, err := ast.New[ast.Cast](an.arena)
	if err != nil {
		return nil, langerrs.ErrSemaOOM
	}
	cast.Sp = e.Span()
	cast.Target = target
	cast.Inner = e
	cast.SetType(target)
	if cv, isConst := e.Const(); isConst {
		if folded, ok := foldCast(target, cv); ok {
			cast.SetConst(folded)
		}
	}
	return cast, nil
}

func numericRank(p types.Prim) int {
	switch p {
	case types.I32:
		return 0
	case types.I64:
		return 1
	case types.F32:
		return 2
	case types.F64:
		return 3
	}
	return -1
}

func (an *Analyzer) unify(a, b *types.Type) *types.Type {
	if a == b {
		return a
	}
	if numericRank(a.Prim) >= numericRank(b.Prim) {
		return a
	}
	return b
}

// canImplicitCast implements spec.md §4.8's five-rule policy: identical
// types; integer to wider integer; float to wider float; any integer to
// any float; and T[N] -> T[] (size-forgetting), recursively, provided the
// element types are themselves implicitly castable.
func (an *Analyzer) canImplicitCast(target, source *types.Type) bool {
	if target == nil || source == nil {
		return false
	}
	if target == source {
		return true
	}
	if source.IsInteger() && target.IsInteger() {
		return numericRank(target.Prim) >= numericRank(source.Prim)
	}
	if source.IsFloat() && target.IsFloat() {
		return numericRank(target.Prim) >= numericRank(source.Prim)
	}
	if source.IsInteger() && target.IsFloat() {
		return true
	}
	if target.Kind == types.KindArray && source.Kind == types.KindArray {
		if source.ArraySized && !target.ArraySized {
			return target.Elem == source.Elem || an.canImplicitCast(target.Elem, source.Elem)
		}
		if target.ArraySized == source.ArraySized && target.ArraySize == source.ArraySize {
			return target.Elem == source.Elem || an.canImplicitCast(target.Elem, source.Elem)
		}
	}
	return false
}

func foldCast(target *types.Type, cv ast.ConstValue) (ast.ConstValue, bool) {
	switch {
	case target.IsInteger():
		switch cv.Kind {
		case ast.ConstInt:
			return ast.ConstValue{Kind: ast.ConstInt, IntVal: wrapInt(target, cv.IntVal)}, true
		case ast.ConstFloat:
			return ast.ConstValue{Kind: ast.ConstInt, IntVal: wrapInt(target, int64(cv.FloatVal))}, true
		}
	case target.IsFloat():
		switch cv.Kind {
		case ast.ConstInt:
			return ast.ConstValue{Kind: ast.ConstFloat, FloatVal: float64(cv.IntVal)}, true
		case ast.ConstFloat:
			return ast.ConstValue{Kind: ast.ConstFloat, FloatVal: cv.FloatVal}, true
		}
	}
	return ast.ConstValue{}, false
}

// wrapInt applies Go's own defined wrapping overflow behavior for i32,
// the choice SPEC_FULL.md §12.3 records for the open question spec.md §9
// leaves on constant-fold overflow.
func wrapInt(target *types.Type, v int64) int64 {
	if target.Prim == types.I32 {
		return int64(int32(v))
	}
	return v
}

func constAsFloat(cv ast.ConstValue) float64 {
	if cv.Kind == ast.ConstFloat {
		return cv.FloatVal
	}
	return float64(cv.IntVal)
}

func foldBinaryArith(op token.Kind, t *types.Type, l, r ast.ConstValue) (ast.ConstValue, bool) {
	if t.IsInteger() {
		if l.Kind != ast.ConstInt || r.Kind != ast.ConstInt {
			return ast.ConstValue{}, false
		}
		var v int64
		switch op {
		case token.Plus:
			v = l.IntVal + r.IntVal
		case token.Minus:
			v = l.IntVal - r.IntVal
		case token.Star:
			v = l.IntVal * r.IntVal
		case token.Slash:
			if r.IntVal == 0 {
				return ast.ConstValue{}, false
			}
			v = l.IntVal / r.IntVal
		case token.Percent:
			if r.IntVal == 0 {
				return ast.ConstValue{}, false
			}
			v = l.IntVal % r.IntVal
		default:
			return ast.ConstValue{}, false
		}
		return ast.ConstValue{Kind: ast.ConstInt, IntVal: wrapInt(t, v)}, true
	}
	if t.IsFloat() {
		lf, rf := constAsFloat(l), constAsFloat(r)
		var v float64
		switch op {
		case token.Plus:
			v = lf + rf
		case token.Minus:
			v = lf - rf
		case token.Star:
			v = lf * rf
		case token.Slash:
			if rf == 0 {
				return ast.ConstValue{}, false
			}
			v = lf / rf
		default:
			return ast.ConstValue{}, false
		}
		return ast.ConstValue{Kind: ast.ConstFloat, FloatVal: v}, true
	}
	return ast.ConstValue{}, false
}

func foldComparison(op token.Kind, l, r ast.ConstValue) (ast.ConstValue, bool) {
	numeric := (l.Kind == ast.ConstInt || l.Kind == ast.ConstFloat) && (r.Kind == ast.ConstInt || r.Kind == ast.ConstFloat)
	if !numeric {
		return ast.ConstValue{}, false
	}
	lf, rf := constAsFloat(l), constAsFloat(r)
	var v bool
	switch op {
	case token.EqEq:
		v = lf == rf
	case token.BangEq:
		v = lf != rf
	case token.Lt:
		v = lf < rf
	case token.Gt:
		v = lf > rf
	case token.LtEq:
		v = lf <= rf
	case token.GtEq:
		v = lf >= rf
	default:
		return ast.ConstValue{}, false
	}
	return ast.ConstValue{Kind: ast.ConstBool, BoolVal: v}, true
}

func foldUnaryArith(op token.Kind, t *types.Type, cv ast.ConstValue) ast.ConstValue {
	if t.IsInteger() && cv.Kind == ast.ConstInt {
		v := cv.IntVal
		if op == token.Minus {
			v = -v
		}
		return ast.ConstValue{Kind: ast.ConstInt, IntVal: wrapInt(t, v)}
	}
	if t.IsFloat() {
		v := constAsFloat(cv)
		if op == token.Minus {
			v = -v
		}
		return ast.ConstValue{Kind: ast.ConstFloat, FloatVal: v}
	}
	return cv
}

// ---- lvalues & diagnostics helpers ----------------------------------------

func isSemanticLvalue(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Ident:
		return true
	case *ast.Subscript:
		return true
	case *ast.Unary:
		return v.Op == token.Star
	case *ast.Cast:
		return isSemanticLvalue(v.Inner)
	default:
		return false
	}
}

func (an *Analyzer) addDiag(kind diag.Kind, sp span.Span, name, expected, actual string) {
	an.diags.Add(diag.Diagnostic{
		Kind: kind, Span: sp, Filename: an.filename,
		Name: name, Expected: expected, Actual: actual,
		Message: diagMessage(kind, name, expected, actual),
	})
}

func (an *Analyzer) addDiagTypeMismatch(sp span.Span, expected, actual *types.Type) {
	an.addDiag(diag.TypeMismatch, sp, "", typeString(expected), typeString(actual))
}

// diagMessage renders a human-readable message for a sema-sourced
// diagnostic from its structured fields, the way parser.go's fail() takes
// an already-formatted message and lexer.go's UnterminatedComment sets one
// literally. Every diag.Kind sema can emit has a case here so Message is
// never left empty.
func diagMessage(kind diag.Kind, name, expected, actual string) string {
	switch kind {
	case diag.UnknownType:
		return fmt.Sprintf("unknown type %q", name)
	case diag.Redeclaration:
		return fmt.Sprintf("%q redeclared in this scope", name)
	case diag.Undeclared:
		return fmt.Sprintf("%q is not declared", name)
	case diag.TypeMismatch:
		return fmt.Sprintf("expected type %s, found %s", expected, actual)
	case diag.ReturnMismatch:
		if actual == "void" {
			return fmt.Sprintf("missing return value; function returns %s", expected)
		}
		return fmt.Sprintf("unexpected return value; function returns %s", expected)
	case diag.DimensionMismatch:
		return fmt.Sprintf("expected %s dimensions, found %s", expected, actual)
	case diag.ArraySizeMismatch:
		return fmt.Sprintf("expected %s elements, found %s", expected, actual)
	case diag.ExpectedArray:
		return fmt.Sprintf("expected an array type, found %s", expected)
	case diag.UnexpectedList:
		return "initializer list not allowed here"
	case diag.BinopMismatch:
		if expected == "" && actual == "" {
			return "mismatched operand types"
		}
		return fmt.Sprintf("operator requires %s, found %s", expected, actual)
	case diag.UnopMismatch:
		return fmt.Sprintf("operator requires %s, found %s", expected, actual)
	case diag.NotCallable:
		return "expression is not callable"
	case diag.NotIndexable:
		return "expression is not indexable"
	case diag.FieldAccess:
		return fmt.Sprintf("no such field %q", name)
	case diag.ConstAssign:
		return fmt.Sprintf("cannot assign to constant %q", name)
	case diag.NotConst:
		return "expected a constant expression"
	case diag.NotLvalue:
		return "expression is not an lvalue"
	case diag.BreakContinueOutsideLoop:
		return "break or continue outside a loop"
	default:
		return kind.String()
	}
}

func typeString(t *types.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

func nameOf(rec *token.Rec) string {
	if rec == nil {
		return ""
	}
	return string(rec.Key)
}
