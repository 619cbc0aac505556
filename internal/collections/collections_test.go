// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package collections_test

import (
	"bytes"
	"testing"

	"github.com/playbymail/langc/internal/arena"
	"github.com/playbymail/langc/internal/collections"
)

func fnvHash(b []byte) uint64 {
	var h uint64 = 14695981039346656037
	for _, c := range b {
		h ^= uint64(c)
		h *= 1099511628211
	}
	return h
}

func TestHashMapGetSetDelete(t *testing.T) {
	m := collections.New[string, int](
		func(k string) uint64 { return fnvHash([]byte(k)) },
		func(a, b string) bool { return a == b },
	)
	m.Set("a", 1)
	m.Set("b", 2)
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a)=%d,%v want 1,true", v, ok)
	}
	m.Set("a", 3)
	if v, _ := m.Get("a"); v != 3 {
		t.Fatalf("Get(a)=%d want 3 after overwrite", v)
	}
	if m.Len() != 2 {
		t.Fatalf("Len()=%d want 2", m.Len())
	}
	if !m.Delete("b") {
		t.Fatalf("Delete(b) should report true")
	}
	if _, ok := m.Get("b"); ok {
		t.Fatalf("b should be gone")
	}
}

func TestHashMapRehash(t *testing.T) {
	m := collections.New[string, int](
		func(k string) uint64 { return fnvHash([]byte(k)) },
		func(a, b string) bool { return a == b },
	)
	for i := 0; i < 1000; i++ {
		m.Set(string(rune('a'+i%26))+string(rune(i)), i)
	}
	if m.Len() != 1000 {
		t.Fatalf("Len()=%d want 1000", m.Len())
	}
}

func TestHashMapByteSliceKeys(t *testing.T) {
	m := collections.New[[]byte, int](fnvHash, bytes.Equal)
	m.Set([]byte("hello"), 1)
	if v, ok := m.Get([]byte("hello")); !ok || v != 1 {
		t.Fatalf("Get(hello)=%d,%v want 1,true", v, ok)
	}
}

func TestSeqPushPopRemove(t *testing.T) {
	s := collections.NewSeq[int](0)
	for i := 0; i < 10; i++ {
		if err := s.Push(i); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if s.Len() != 10 {
		t.Fatalf("Len()=%d want 10", s.Len())
	}
	s.RemoveAt(5)
	if s.Len() != 9 || s.Get(5) != 6 {
		t.Fatalf("RemoveAt(5) failed, Get(5)=%d", s.Get(5))
	}
	v, ok := s.Pop()
	if !ok || v != 9 {
		t.Fatalf("Pop()=%d,%v want 9,true", v, ok)
	}
}

func TestArenaBackedSeqGrows(t *testing.T) {
	a := arena.New(64)
	s, err := collections.NewArenaSeq[int](a, 1)
	if err != nil {
		t.Fatalf("NewArenaSeq: %v", err)
	}
	for i := 0; i < 50; i++ {
		if err := s.Push(i); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if s.Len() != 50 {
		t.Fatalf("Len()=%d want 50", s.Len())
	}
	for i := 0; i < 50; i++ {
		if s.Get(i) != i {
			t.Fatalf("Get(%d)=%d want %d", i, s.Get(i), i)
		}
	}
}
