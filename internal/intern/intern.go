// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package intern

import (
	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/collections"
)

// Record is the record an Interner hands back for a key: a canonical,
// arena-owned copy of the key, the dense index assigned at first
// insertion, and an opaque caller payload set only at first insertion.
// Key is filled in for []byte keys; an Interner over any other key type
// leaves it nil.
type Record[M any] struct {
	Key        []byte
	DenseIndex int
	Meta       M
}

// CopyVerbatim copies key byte for byte, with no terminator. Used for
// opaque blobs such as canonical type representations.
func CopyVerbatim(a *arena.Arena, key []byte) ([]byte, error) {
	dst, err := a.AllocBytes(len(key))
	if err != nil {
		return nil, err
	}
	copy(dst, key)
	return dst, nil
}

// CopyNullTerminated copies key and appends a trailing NUL byte, returning
// a slice over just the key portion (the NUL sits in the backing array,
// just past the returned slice's capacity). Used for
// identifiers, keywords, and strings.
func CopyNullTerminated(a *arena.Arena, key []byte) ([]byte, error) {
	dst, err := a.AllocBytes(len(key) + 1)
	if err != nil {
		return nil, err
	}
	copy(dst, key)
	dst[len(key)] = 0
	return dst[:len(key):len(key)], nil
}

// Interner maps keys of type K (most commonly []byte) to a single canonical
// Record per distinct key, in insertion order.
type Interner[K any, M any] struct {
	arena  *arena.Arena
	copier func(a *arena.Arena, key K) (K, error)
	byKey  *collections.HashMap[K, *Record[M]]
	dense  *collections.Seq[*Record[M]]
}

// New creates an Interner over arena a. hash and equal compare keys of type
// K; copier produces the canonical, arena-owned copy stored in each
// Record's Key field.
func New[K any, M any](a *arena.Arena, hash func(K) uint64, equal func(a, b K) bool, copier func(a *arena.Arena, key K) (K, error)) *Interner[K, M] {
	return &Interner[K, M]{
		arena:  a,
		copier: copier,
		byKey:  collections.New[K, *Record[M]](hash, equal),
		dense:  collections.NewSeq[*Record[M]](16),
	}
}

// Intern inserts key if absent — canonicalizing it via the configured
// copier and assigning the next dense index — or returns the existing
// record for an equal key. meta is stored only on first insertion.
func (in *Interner[K, M]) Intern(key K, meta M) (*Record[M], error) {
	if rec, ok := in.byKey.Get(key); ok {
		return rec, nil
	}
	canonical, err := in.copier(in.arena, key)
	if err != nil {
		return nil, err
	}
	rec, err := arena.AllocValue[Record[M]](in.arena)
	if err != nil {
		return nil, err
	}
	if kb, ok := any(canonical).([]byte); ok {
		rec.Key = kb
	}
	rec.DenseIndex = in.dense.Len()
	rec.Meta = meta
	in.byKey.Set(canonical, rec)
	if err := in.dense.Push(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Peek looks up key without inserting it.
func (in *Interner[K, M]) Peek(key K) (*Record[M], bool) {
	return in.byKey.Get(key)
}

// GetByIndex returns the record whose DenseIndex is i.
func (in *Interner[K, M]) GetByIndex(i int) (*Record[M], bool) {
	if i < 0 || i >= in.dense.Len() {
		return nil, false
	}
	return in.dense.Get(i), true
}

// Len returns the number of distinct keys interned so far.
func (in *Interner[K, M]) Len() int { return in.dense.Len() }

// ForEach calls fn for every record, in dense (insertion) order.
func (in *Interner[K, M]) ForEach(fn func(*Record[M])) {
	in.dense.ForEach(func(_ int, rec *Record[M]) { fn(rec) })
}
