// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package types

import (
	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/collections"
	"github.com/playbymail/langc/internal/intern"
	"github.com/playbymail/langc/internal/token"
)

// Kind tags a Type's structural family.
type Kind int

const (
	KindPrimitive Kind = iota
	KindPointer
	KindArray
	KindFunction
	// KindStruct and KindEnum are reserved by spec.md §3 ("struct/enum
	// (reserved, unused)") and are never produced by this front-end.
	KindStruct
	KindEnum
)

// Prim tags which primitive a KindPrimitive Type is.
type Prim int

const (
	I32 Prim = iota
	I64
	F32
	F64
	Bool
	Char
	Str
	Void
	notPrimitive Prim = -1
)

var primNames = map[Prim]string{
	I32: "i32", I64: "i64", F32: "f32", F64: "f64", Bool: "bool", Char: "char", Str: "str", Void: "void",
}

func (p Prim) String() string {
	if s, ok := primNames[p]; ok {
		return s
	}
	return "?"
}

// Type is a canonical, interned semantic type. Equal types share the same
// pointer within one Store.
type Type struct {
	Kind Kind

	// Prim is meaningful only when Kind == KindPrimitive.
	Prim Prim

	// Elem is the pointee (KindPointer) or element type (KindArray).
	Elem *Type

	// ArraySize and ArraySized are meaningful only when Kind == KindArray.
	ArraySize  int64
	ArraySized bool

	// Ret and Params are meaningful only when Kind == KindFunction.
	Ret    *Type
	Params []*Type

	// StructHash is the cached structural hash, computed once at
	// interning time from already-canonical children.
	StructHash uint64
}

func (t *Type) IsNumeric() bool {
	return t.Kind == KindPrimitive && (t.Prim == I32 || t.Prim == I64 || t.Prim == F32 || t.Prim == F64)
}

func (t *Type) IsInteger() bool {
	return t.Kind == KindPrimitive && (t.Prim == I32 || t.Prim == I64)
}

func (t *Type) IsFloat() bool {
	return t.Kind == KindPrimitive && (t.Prim == F32 || t.Prim == F64)
}

func (t *Type) IsBool() bool { return t.Kind == KindPrimitive && t.Prim == Bool }
func (t *Type) IsVoid() bool { return t.Kind == KindPrimitive && t.Prim == Void }

// Rank returns the number of nested array levels before the element is
// non-array.
func (t *Type) Rank() int {
	n := 0
	for t != nil && t.Kind == KindArray {
		n++
		t = t.Elem
	}
	return n
}

// String renders a Type in source syntax. sema uses it to fill a
// diagnostic's Expected, Actual and Message text; tests use it too.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Prim.String()
	case KindPointer:
		return t.Elem.String() + "*"
	case KindArray:
		if t.ArraySized {
			return t.Elem.String() + "[" + itoa(t.ArraySize) + "]"
		}
		return t.Elem.String() + "[]"
	case KindFunction:
		s := "fn("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		s += ")"
		if t.Ret != nil && !t.Ret.IsVoid() {
			s += " -> " + t.Ret.String()
		}
		return s
	default:
		return "?"
	}
}

func itoa(n int64) string {
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

// combine mixes the cached structural hash of a child, or a plain integer
// field, into a running hash.
func combine(h uint64, v uint64) uint64 {
	h ^= v
	h *= 1099511628211
	return h
}

func structuralHash(proto Type) uint64 {
	h := uint64(1469598103934665603) ^ uint64(proto.Kind)
	switch proto.Kind {
	case KindPrimitive:
		h = combine(h, uint64(proto.Prim))
	case KindPointer:
		h = combine(h, proto.Elem.StructHash)
	case KindArray:
		h = combine(h, proto.Elem.StructHash)
		h = combine(h, uint64(proto.ArraySize))
		if proto.ArraySized {
			h = combine(h, 1)
		}
	case KindFunction:
		if proto.Ret != nil {
			h = combine(h, proto.Ret.StructHash)
		}
		h = combine(h, uint64(len(proto.Params)))
		for _, p := range proto.Params {
			h = combine(h, p.StructHash)
		}
	}
	return h
}

func structuralEqual(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPrimitive:
		return a.Prim == b.Prim
	case KindPointer:
		return a.Elem == b.Elem
	case KindArray:
		return a.Elem == b.Elem && a.ArraySize == b.ArraySize && a.ArraySized == b.ArraySized
	case KindFunction:
		if a.Ret != b.Ret || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if a.Params[i] != b.Params[i] {
				return false
			}
		}
		return true
	}
	return false
}

// Store interns Type values: intern(T) returns the same pointer for every
// structurally-equal T.
type Store struct {
	arena  *arena.Arena
	byKey  *collections.HashMap[Type, *Type]
	dense  *collections.Seq[*Type]
	prims  [8]*Type
	byName map[*token.Rec]*Type
}

// NewStore creates a Store and eagerly interns the eight primitive
// singletons, registering each against its keyword record in keywords (the
// lexer's pre-populated keyword interner) so ResolveNamed can map a
// primitive-type keyword token straight to its canonical Type.
func NewStore(a *arena.Arena, keywords *intern.Interner[[]byte, token.Kind]) (*Store, error) {
	s := &Store{
		arena:  a,
		byKey:  collections.New[Type, *Type](structuralHash, structuralEqual),
		dense:  collections.NewSeq[*Type](8),
		byName: map[*token.Rec]*Type{},
	}
	order := []struct {
		prim Prim
		name string
	}{
		{I32, "i32"}, {I64, "i64"}, {F32, "f32"}, {F64, "f64"},
		{Bool, "bool"}, {Char, "char"}, {Str, "str"},
	}
	for _, o := range order {
		t, err := s.intern(Type{Kind: KindPrimitive, Prim: o.prim})
		if err != nil {
			return nil, err
		}
		s.prims[o.prim] = t
		if rec, ok := keywords.Peek([]byte(o.name)); ok {
			s.byName[rec] = t
		}
	}
	voidT, err := s.intern(Type{Kind: KindPrimitive, Prim: Void})
	if err != nil {
		return nil, err
	}
	s.prims[Void] = voidT
	// void has no source keyword; it is never spelled by the user.
	return s, nil
}

func (s *Store) intern(proto Type) (*Type, error) {
	if existing, ok := s.byKey.Get(proto); ok {
		return existing, nil
	}
	canonical, err := arena.AllocValue[Type](s.arena)
	if err != nil {
		return nil, err
	}
	*canonical = proto
	if len(proto.Params) > 0 {
		paramsCopy, err := arena.AllocSlice[*Type](s.arena, len(proto.Params))
		if err != nil {
			return nil, err
		}
		copy(paramsCopy, proto.Params)
		canonical.Params = paramsCopy
	} else {
		canonical.Params = nil
	}
	canonical.StructHash = structuralHash(*canonical)
	s.byKey.Set(*canonical, canonical)
	if err := s.dense.Push(canonical); err != nil {
		return nil, err
	}
	return canonical, nil
}

// Primitive returns the canonical singleton for p.
func (s *Store) Primitive(p Prim) *Type { return s.prims[p] }

// ResolveNamed returns the primitive Type registered for the keyword
// record name, or nil if name does not name a primitive.
func (s *Store) ResolveNamed(name *token.Rec) *Type { return s.byName[name] }

// Pointer returns (interning if necessary) the pointer-to-elem type.
func (s *Store) Pointer(elem *Type) (*Type, error) {
	return s.intern(Type{Kind: KindPointer, Elem: elem})
}

// Array returns (interning if necessary) the array-of-elem type. Pass
// sized=false for an unsized array (size is then ignored).
func (s *Store) Array(elem *Type, size int64, sized bool) (*Type, error) {
	if !sized {
		size = 0
	}
	return s.intern(Type{Kind: KindArray, Elem: elem, ArraySize: size, ArraySized: sized})
}

// Function returns (interning if necessary) the fn(params...) -> ret type.
// ret may be nil, meaning void.
func (s *Store) Function(ret *Type, params []*Type) (*Type, error) {
	if ret == nil {
		ret = s.prims[Void]
	}
	return s.intern(Type{Kind: KindFunction, Ret: ret, Params: params})
}

// Len returns the number of distinct types interned so far.
func (s *Store) Len() int { return s.dense.Len() }

// ForEach calls fn for every interned type, in interning order.
func (s *Store) ForEach(fn func(*Type)) {
	s.dense.ForEach(func(_ int, t *Type) { fn(t) })
}
