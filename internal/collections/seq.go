// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package collections

import "github.com/playbymail/langc/internal/arena"

// Seq is a generic dynamic sequence. With a nil Arena it grows on the Go
// heap like a normal slice; with an Arena it grows by allocating a new,
// larger backing array from the Arena and copying the live elements into
// it — the old backing array is never reused but is reclaimed only when
// the Arena itself is torn down. Arena-backed sequences therefore never
// shrink their backing storage.
type Seq[T any] struct {
	arena *arena.Arena
	data  []T
}

// NewSeq creates a heap-backed sequence with the given initial capacity.
func NewSeq[T any](capacity int) *Seq[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Seq[T]{data: make([]T, 0, capacity)}
}

// NewArenaSeq creates an arena-backed sequence with the given initial
// capacity.
func NewArenaSeq[T any](a *arena.Arena, capacity int) (*Seq[T], error) {
	if capacity < 0 {
		capacity = 0
	}
	backing, err := arena.AllocSlice[T](a, capacity)
	if err != nil {
		return nil, err
	}
	return &Seq[T]{arena: a, data: backing[:0]}, nil
}

// Len returns the number of elements in the sequence.
func (s *Seq[T]) Len() int { return len(s.data) }

// Cap returns the capacity of the current backing array.
func (s *Seq[T]) Cap() int { return cap(s.data) }

// Get returns the element at index i.
func (s *Seq[T]) Get(i int) T { return s.data[i] }

// Set overwrites the element at index i.
func (s *Seq[T]) Set(i int, v T) { s.data[i] = v }

// Reserve ensures the sequence can grow to at least n elements without a
// further reallocation.
func (s *Seq[T]) Reserve(n int) error {
	if n <= cap(s.data) {
		return nil
	}
	return s.grow(n)
}

func (s *Seq[T]) grow(minCap int) error {
	newCap := cap(s.data) * 2
	if newCap < minCap {
		newCap = minCap
	}
	if newCap < 4 {
		newCap = 4
	}
	if s.arena == nil {
		next := make([]T, len(s.data), newCap)
		copy(next, s.data)
		s.data = next
		return nil
	}
	next, err := arena.AllocSlice[T](s.arena, newCap)
	if err != nil {
		return err
	}
	copy(next, s.data)
	s.data = next[:len(s.data)]
	return nil
}

// Push appends v, growing the backing array if necessary.
func (s *Seq[T]) Push(v T) error {
	if len(s.data) == cap(s.data) {
		if err := s.grow(len(s.data) + 1); err != nil {
			return err
		}
	}
	s.data = append(s.data, v)
	return nil
}

// Pop removes and returns the last element. ok is false on an empty
// sequence.
func (s *Seq[T]) Pop() (v T, ok bool) {
	if len(s.data) == 0 {
		return v, false
	}
	last := len(s.data) - 1
	v = s.data[last]
	s.data = s.data[:last]
	return v, true
}

// RemoveAt removes the element at index i, preserving the order of the
// remaining elements.
func (s *Seq[T]) RemoveAt(i int) {
	s.data = append(s.data[:i], s.data[i+1:]...)
}

// ForEach calls fn for every element in order.
func (s *Seq[T]) ForEach(fn func(int, T)) {
	for i, v := range s.data {
		fn(i, v)
	}
}

// Slice returns the live elements as a plain slice. The caller must not
// retain it across further mutation of the sequence.
func (s *Seq[T]) Slice() []T { return s.data }
