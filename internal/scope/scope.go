// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package scope

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/playbymail/langc/internal/ast"
	"github.com/playbymail/langc/internal/span"
	"github.com/playbymail/langc/internal/token"
	"github.com/playbymail/langc/internal/types"
)

// Kind disambiguates which dense-index space a Scope's slots are indexed
// by: the identifier interner or the keyword interner. A lookup only
// inspects scopes whose Kind matches the name's origin interner, so a
// user identifier can never collide with a reserved type-name keyword
// even when their dense indices happen to coincide.
type Kind int

const (
	Identifiers Kind = iota
	Keywords
)

// Category classifies what a Symbol denotes, independent of its resolved
// Type — mainly useful for diagnostics and debug dumps.
type Category int

const (
	General Category = iota
	Variable
	Function
)

// Symbol is one entry in a Scope's slot array.
type Symbol struct {
	Name     *token.Rec
	Typ      *types.Type
	DeclSpan span.Span
	Category Category

	Const            bool
	HasComputedValue bool
	Used             bool
	Initialized      bool
	ConstVal         ast.ConstValue
}

func (s *Symbol) MarkUsed()        { s.Used = true }
func (s *Symbol) MarkInitialized() { s.Initialized = true }

// Scope is one link in the lexical scope chain: a slot array indexed by
// dense index, plus a parent pointer.
type Scope struct {
	parent *Scope
	kind   Kind
	slots  []*Symbol
}

func newScope(parent *Scope, capacity int, kind Kind) *Scope {
	if capacity < 0 {
		capacity = 0
	}
	return &Scope{parent: parent, kind: kind, slots: make([]*Symbol, capacity)}
}

func (sc *Scope) ensure(i int) {
	if i < len(sc.slots) {
		return
	}
	next := make([]*Symbol, i+1)
	copy(next, sc.slots)
	sc.slots = next
}

// define writes sym into slots[denseIndex] if empty, else reports the
// already-occupying Symbol and false.
func (sc *Scope) define(denseIndex int, sym *Symbol) (*Symbol, bool) {
	sc.ensure(denseIndex)
	if existing := sc.slots[denseIndex]; existing != nil {
		return existing, false
	}
	sc.slots[denseIndex] = sym
	return sym, true
}

func (sc *Scope) localAt(denseIndex int) (*Symbol, bool) {
	if denseIndex < 0 || denseIndex >= len(sc.slots) {
		return nil, false
	}
	sym := sc.slots[denseIndex]
	return sym, sym != nil
}

// defaultCacheSize bounds the Stack's lookup cache. A compilation unit's
// live identifier count rarely approaches this; the cache exists to avoid
// re-walking the scope chain for names referenced repeatedly inside a
// loop body, not to bound memory.
const defaultCacheSize = 1024

type cacheKey struct {
	scope *Scope
	kind  Kind
	dense int
}

// Stack is the scope chain sema pushes and pops as it walks the AST, plus
// the shared lookup cache spanning the whole compilation. Because scopes
// and interned records are pointer-stable for the lifetime of a
// compilation, a cache entry keyed on (*Scope, kind, dense index) never
// goes stale within that compilation.
type Stack struct {
	top   *Scope
	cache *lru.Cache[cacheKey, *Symbol]
}

// NewStack creates a Stack with a single root scope of kind Identifiers.
func NewStack() *Stack {
	cache, _ := lru.New[cacheKey, *Symbol](defaultCacheSize)
	return &Stack{top: newScope(nil, 32, Identifiers), cache: cache}
}

// Push creates a new child scope of kind, capacity, and makes it current.
func (st *Stack) Push(capacity int, kind Kind) {
	st.top = newScope(st.top, capacity, kind)
}

// Pop discards the current scope, restoring its parent as current. Pop on
// the root scope is a no-op.
func (st *Stack) Pop() {
	if st.top.parent != nil {
		st.top = st.top.parent
	}
}

// Current returns the innermost active scope.
func (st *Stack) Current() *Scope { return st.top }

// Define installs a symbol for name in the current scope. ok is false if
// name's slot is already occupied (a redeclaration), in which case the
// already-present Symbol is returned instead of sym.
func (st *Stack) Define(name *token.Rec, typ *types.Type, category Category, declSpan span.Span) (*Symbol, bool) {
	sym := &Symbol{Name: name, Typ: typ, DeclSpan: declSpan, Category: category}
	got, ok := st.top.define(name.DenseIndex, sym)
	if ok && st.cache != nil {
		// A lookup cached for this scope may have resolved to an outer
		// symbol that the new definition now shadows.
		st.cache.Remove(cacheKey{scope: st.top, kind: st.top.kind, dense: name.DenseIndex})
	}
	return got, ok
}

// LookupLocal looks up name in the current scope only, without walking
// parents.
func (st *Stack) LookupLocal(name *token.Rec) (*Symbol, bool) {
	return st.top.localAt(name.DenseIndex)
}

// Lookup walks the scope chain from the current scope outward, inspecting
// only scopes whose kind matches kind, and returns the first match.
// Successful lookups are memoized; failed lookups are not cached, since a
// later Define in an enclosing scope could make a previously-failed
// lookup succeed if retried at a later program point.
func (st *Stack) Lookup(name *token.Rec, kind Kind) (*Symbol, bool) {
	key := cacheKey{scope: st.top, kind: kind, dense: name.DenseIndex}
	if st.cache != nil {
		if sym, ok := st.cache.Get(key); ok {
			return sym, true
		}
	}
	for sc := st.top; sc != nil; sc = sc.parent {
		if sc.kind != kind {
			continue
		}
		if sym, ok := sc.localAt(name.DenseIndex); ok {
			if st.cache != nil {
				st.cache.Add(key, sym)
			}
			return sym, true
		}
	}
	return nil, false
}
