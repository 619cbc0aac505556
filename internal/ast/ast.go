// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ast

import (
	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/span"
	"github.com/playbymail/langc/internal/token"
	"github.com/playbymail/langc/internal/types"
)

// Kind tags every AST node family.
type Kind int

const (
	KindProgram Kind = iota
	KindVarDecl
	KindFuncDecl
	KindParam
	KindBlock
	KindIfStmt
	KindWhileStmt
	KindForStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindExprStmt
	KindLiteral
	KindIdent
	KindBinary
	KindUnary
	KindPostfix
	KindAssignment
	KindCall
	KindSubscript
	KindInitList
	KindCast
	KindTypeNamed
	KindTypePointer
	KindTypeArray
	KindTypeFunction
)

// Node is implemented by every AST node.
type Node interface {
	NodeKind() Kind
	Span() span.Span
}

// ---- constant values -------------------------------------------------

// ConstKind tags the payload of a ConstValue.
type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstInt
	ConstFloat
	ConstBool
	ConstChar
	ConstString
)

// ConstValue is the inline constant value carried by any const-foldable
// expression node.
type ConstValue struct {
	Kind     ConstKind
	IntVal   int64
	FloatVal float64
	BoolVal  bool
	CharVal  rune
	StrVal   *token.Rec
}

// ---- type expressions (pre-sema syntax) ------------------------------

// TypeExpr is the syntactic type-expression tree the parser builds from
// the `Type` grammar production; sema resolves each one to a canonical
// *types.Type.
type TypeExpr interface {
	Node
	typeExprNode()
}

type NamedType struct {
	Sp   span.Span
	Name *token.Rec
}

func (n *NamedType) NodeKind() Kind   { return KindTypeNamed }
func (n *NamedType) Span() span.Span  { return n.Sp }
func (n *NamedType) typeExprNode()    {}

type PointerType struct {
	Sp   span.Span
	Elem TypeExpr
}

func (n *PointerType) NodeKind() Kind  { return KindTypePointer }
func (n *PointerType) Span() span.Span { return n.Sp }
func (n *PointerType) typeExprNode()   {}

// ArrayType is `Elem '[' [SizeExpr] ']'`. SizeExpr is nil for an unsized
// array; sema's array-size inference (spec.md §4.8) rewrites SizeExpr to a
// synthesized integer-literal Literal node and sets SizeKnown.
type ArrayType struct {
	Sp        span.Span
	Elem      TypeExpr
	SizeExpr  Expr
	SizeKnown bool
}

func (n *ArrayType) NodeKind() Kind  { return KindTypeArray }
func (n *ArrayType) Span() span.Span { return n.Sp }
func (n *ArrayType) typeExprNode()   {}

// FuncType is `'fn' '(' [Type {',' Type}] ')' ['->' Type]`. Ret is nil for
// the implicit `void` return.
type FuncType struct {
	Sp     span.Span
	Params []TypeExpr
	Ret    TypeExpr
}

func (n *FuncType) NodeKind() Kind  { return KindTypeFunction }
func (n *FuncType) Span() span.Span { return n.Sp }
func (n *FuncType) typeExprNode()   {}

// ---- expressions ------------------------------------------------------

// ExprMeta holds the fields every expression node carries and sema fills
// in: the resolved semantic type, whether the expression folds to a
// constant, and — if so — the folded value. Concrete expression types
// embed it by value.
type ExprMeta struct {
	Typ         *types.Type
	IsConstExpr bool
	ConstVal    ConstValue
}

func (m *ExprMeta) Type() *types.Type   { return m.Typ }
func (m *ExprMeta) SetType(t *types.Type) { m.Typ = t }
func (m *ExprMeta) Const() (ConstValue, bool) { return m.ConstVal, m.IsConstExpr }
func (m *ExprMeta) SetConst(v ConstValue) {
	m.IsConstExpr = true
	m.ConstVal = v
}
func (m *ExprMeta) ClearConst() {
	m.IsConstExpr = false
	m.ConstVal = ConstValue{}
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
	Type() *types.Type
	SetType(*types.Type)
	Const() (ConstValue, bool)
	SetConst(ConstValue)
}

// LitKind tags a Literal node's syntactic form.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitChar
	LitString
)

type Literal struct {
	ExprMeta
	Sp       span.Span
	LitKind  LitKind
	IntVal   int64
	FloatVal float64
	BoolVal  bool
	CharVal  rune
	StrVal   *token.Rec
}

func (n *Literal) NodeKind() Kind  { return KindLiteral }
func (n *Literal) Span() span.Span { return n.Sp }
func (n *Literal) exprNode()       {}

type Ident struct {
	ExprMeta
	Sp   span.Span
	Name *token.Rec
}

func (n *Ident) NodeKind() Kind  { return KindIdent }
func (n *Ident) Span() span.Span { return n.Sp }
func (n *Ident) exprNode()       {}

type Binary struct {
	ExprMeta
	Sp          span.Span
	Op          token.Kind
	Left, Right Expr
}

func (n *Binary) NodeKind() Kind  { return KindBinary }
func (n *Binary) Span() span.Span { return n.Sp }
func (n *Binary) exprNode()       {}

// Unary covers the prefix operators `+ - ! * &` and prefix `++`/`--`.
type Unary struct {
	ExprMeta
	Sp      span.Span
	Op      token.Kind
	Operand Expr
}

func (n *Unary) NodeKind() Kind  { return KindUnary }
func (n *Unary) Span() span.Span { return n.Sp }
func (n *Unary) exprNode()       {}

// Postfix covers postfix `++`/`--`. Postfix subscript and call have their
// own node kinds (Subscript, Call).
type Postfix struct {
	ExprMeta
	Sp      span.Span
	Op      token.Kind
	Operand Expr
}

func (n *Postfix) NodeKind() Kind  { return KindPostfix }
func (n *Postfix) Span() span.Span { return n.Sp }
func (n *Postfix) exprNode()       {}

type Assignment struct {
	ExprMeta
	Sp     span.Span
	Op     token.Kind
	Target Expr
	Value  Expr
}

func (n *Assignment) NodeKind() Kind  { return KindAssignment }
func (n *Assignment) Span() span.Span { return n.Sp }
func (n *Assignment) exprNode()       {}

type Call struct {
	ExprMeta
	Sp     span.Span
	Callee Expr
	Args   []Expr
}

func (n *Call) NodeKind() Kind  { return KindCall }
func (n *Call) Span() span.Span { return n.Sp }
func (n *Call) exprNode()       {}

type Subscript struct {
	ExprMeta
	Sp     span.Span
	Target Expr
	Index  Expr
}

func (n *Subscript) NodeKind() Kind  { return KindSubscript }
func (n *Subscript) Span() span.Span { return n.Sp }
func (n *Subscript) exprNode()       {}

// InitList is `'{' [Elem {',' Elem}] '}'`; each element is either a nested
// InitList or any expression.
type InitList struct {
	ExprMeta
	Sp    span.Span
	Elems []Expr
}

func (n *InitList) NodeKind() Kind  { return KindInitList }
func (n *InitList) Span() span.Span { return n.Sp }
func (n *InitList) exprNode()       {}

// Cast exists only as a node sema inserts in place of an expression whose
// resolved type differs from its target but is implicitly castable.
type Cast struct {
	ExprMeta
	Sp     span.Span
	Target *types.Type
	Inner  Expr
}

func (n *Cast) NodeKind() Kind  { return KindCast }
func (n *Cast) Span() span.Span { return n.Sp }
func (n *Cast) exprNode()       {}

// ---- statements ---------------------------------------------------------

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

type Block struct {
	Sp    span.Span
	Stmts []Stmt
}

func (n *Block) NodeKind() Kind  { return KindBlock }
func (n *Block) Span() span.Span { return n.Sp }
func (n *Block) stmtNode()       {}

// IfStmt's Else is nil, *Block, or *IfStmt (the `else if` chain).
type IfStmt struct {
	Sp   span.Span
	Cond Expr
	Then *Block
	Else Stmt
}

func (n *IfStmt) NodeKind() Kind  { return KindIfStmt }
func (n *IfStmt) Span() span.Span { return n.Sp }
func (n *IfStmt) stmtNode()       {}

type WhileStmt struct {
	Sp   span.Span
	Cond Expr
	Body *Block
}

func (n *WhileStmt) NodeKind() Kind  { return KindWhileStmt }
func (n *WhileStmt) Span() span.Span { return n.Sp }
func (n *WhileStmt) stmtNode()       {}

// ForStmt's Init is nil, a *VarDecl, or an *ExprStmt; Cond and Post may be
// nil (all three clauses are optional in the grammar's Expr slots, though
// the surrounding `;` are not).
type ForStmt struct {
	Sp   span.Span
	Init Stmt
	Cond Expr
	Post Expr
	Body *Block
}

func (n *ForStmt) NodeKind() Kind  { return KindForStmt }
func (n *ForStmt) Span() span.Span { return n.Sp }
func (n *ForStmt) stmtNode()       {}

type ReturnStmt struct {
	Sp    span.Span
	Value Expr // nil for a bare `return;`
}

func (n *ReturnStmt) NodeKind() Kind  { return KindReturnStmt }
func (n *ReturnStmt) Span() span.Span { return n.Sp }
func (n *ReturnStmt) stmtNode()       {}

type BreakStmt struct{ Sp span.Span }

func (n *BreakStmt) NodeKind() Kind  { return KindBreakStmt }
func (n *BreakStmt) Span() span.Span { return n.Sp }
func (n *BreakStmt) stmtNode()       {}

type ContinueStmt struct{ Sp span.Span }

func (n *ContinueStmt) NodeKind() Kind  { return KindContinueStmt }
func (n *ContinueStmt) Span() span.Span { return n.Sp }
func (n *ContinueStmt) stmtNode()       {}

type ExprStmt struct {
	Sp span.Span
	X  Expr
}

func (n *ExprStmt) NodeKind() Kind  { return KindExprStmt }
func (n *ExprStmt) Span() span.Span { return n.Sp }
func (n *ExprStmt) stmtNode()       {}

// VarDecl is also a Stmt (it appears both at top level, `TopDecl`, and
// inside a Block via `Stmt = ... | VariableDecl ';' | ...`).
type VarDecl struct {
	Sp       span.Span
	Name     *token.Rec
	IsConst  bool
	TypeExpr TypeExpr
	Init     Expr // nil if the declaration has no initializer
	Typ      *types.Type
}

func (n *VarDecl) NodeKind() Kind  { return KindVarDecl }
func (n *VarDecl) Span() span.Span { return n.Sp }
func (n *VarDecl) stmtNode()       {}

type Param struct {
	Sp       span.Span
	Name     *token.Rec
	TypeExpr TypeExpr
	Typ      *types.Type
}

func (n *Param) NodeKind() Kind  { return KindParam }
func (n *Param) Span() span.Span { return n.Sp }

type FuncDecl struct {
	Sp      span.Span
	Name    *token.Rec
	Params  []*Param
	RetType TypeExpr // nil => void
	Body    *Block
	Typ     *types.Type // the function's type (filled in pass 1)
}

func (n *FuncDecl) NodeKind() Kind  { return KindFuncDecl }
func (n *FuncDecl) Span() span.Span { return n.Sp }

// Program is the AST root; Decls holds *VarDecl and *FuncDecl nodes in
// source order.
type Program struct {
	Sp    span.Span
	Decls []Node
}

func (n *Program) NodeKind() Kind  { return KindProgram }
func (n *Program) Span() span.Span { return n.Sp }

// ---- arena-backed constructors -----------------------------------------

// New allocates a zero-valued node of type T from a, for every concrete
// node type in this package. Callers fill in fields after construction.
func New[T any](a *arena.Arena) (*T, error) {
	return arena.AllocValue[T](a)
}
