// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package arena_test

import (
	"testing"

	"github.com/playbymail/langc/internal/arena"
)

func TestAllocBytesGrowsBlocks(t *testing.T) {
	a := arena.New(16)
	first, err := a.AllocBytes(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 8 {
		t.Fatalf("len=%d, want 8", len(first))
	}
	// force a new block: remaining space in a 16-byte block is small.
	second, err := a.AllocBytes(64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != 64 {
		t.Fatalf("len=%d, want 64", len(second))
	}
	if a.TotalBytesUsed() < 72 {
		t.Fatalf("TotalBytesUsed=%d, want >= 72", a.TotalBytesUsed())
	}
}

func TestAllocBytesStablePointers(t *testing.T) {
	a := arena.New(64)
	b1, _ := a.AllocBytes(4)
	copy(b1, "abcd")
	b2, _ := a.AllocBytes(4)
	copy(b2, "wxyz")
	if string(b1) != "abcd" {
		t.Fatalf("b1 was clobbered: %q", b1)
	}
	if string(b2) != "wxyz" {
		t.Fatalf("b2 was clobbered: %q", b2)
	}
}

func TestMaxBytesOOM(t *testing.T) {
	a := arena.New(16)
	a.MaxBytes = 8
	if _, err := a.AllocBytes(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.AllocBytes(64); err == nil {
		t.Fatalf("expected OOM error")
	}
}

func TestReset(t *testing.T) {
	a := arena.New(16)
	a.AllocBytes(4)
	a.AllocBytes(64)
	if a.TotalBytesUsed() == 0 {
		t.Fatalf("expected non-zero usage before reset")
	}
	a.Reset()
	if a.TotalBytesUsed() != 0 {
		t.Fatalf("TotalBytesUsed=%d after reset, want 0", a.TotalBytesUsed())
	}
}

func TestAllocValueAndSlice(t *testing.T) {
	type point struct{ X, Y int }
	a := arena.New(64)
	p, err := arena.AllocValue[point](a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.X, p.Y = 1, 2
	s, err := arena.AllocSlice[point](a, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 3 {
		t.Fatalf("len=%d, want 3", len(s))
	}
}
