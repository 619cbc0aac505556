// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package arena

import (
	"unsafe"

	"github.com/playbymail/langc/langerrs"
)

// defaultBlockSize is the size, in bytes, of the first block allocated by a
// new Arena and the minimum size of every block after it.
const defaultBlockSize = 4096

// block is one link in the Arena's singly-linked list of backing buffers.
type block struct {
	buf  []byte
	used int
}

func (b *block) remaining() int { return len(b.buf) - b.used }

// Arena is a bump allocator over a singly-linked list of blocks. Every byte
// handed out by AllocBytes/AllocZeroedBytes lives in one of these blocks and
// is reclaimed only when the Arena itself is dropped, or earlier, by Reset.
//
// Allocations of Go values (AllocValue, AllocSlice) are backed by the normal
// Go heap and garbage collector — the Arena still accounts for their size in
// TotalBytesUsed so callers get one consistent "how much did this
// compilation cost" number, but it does not attempt manual memory layout of
// arbitrary typed values: that would require unsafe pointer arithmetic this
// codebase does not otherwise need.
type Arena struct {
	blockSize int
	blocks    []*block
	current   *block

	// MaxBytes bounds the total bytes this Arena will hand out across both
	// the byte-block allocator and the accounted heap allocations. Zero
	// means unlimited. Exceeding it returns langerrs.ErrArenaOOM, the
	// Arena's only failure mode.
	MaxBytes int64

	totalUsed int64
}

// New creates an Arena whose first block is blockSize bytes (or
// defaultBlockSize if blockSize <= 0).
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	a := &Arena{blockSize: blockSize}
	a.current = a.newBlock(blockSize)
	a.blocks = append(a.blocks, a.current)
	return a
}

func (a *Arena) newBlock(size int) *block {
	return &block{buf: make([]byte, size)}
}

// alignUp rounds n up to the next multiple of maxAlign, the alignment of the
// platform's widest common scalar (float64/uint64/pointer all share it on
// every architecture Go targets).
const maxAlign = int(unsafe.Alignof(uint64(0)))

func alignUp(n int) int {
	if r := n % maxAlign; r != 0 {
		n += maxAlign - r
	}
	return n
}

// AllocBytes returns an n-byte slice carved from the current block, growing
// the block list if necessary. The returned slice's contents are not
// cleared: bytes from a freshly made block are zero, but after Reset the
// first block is reused and still holds what earlier allocations wrote.
// AllocZeroedBytes clears them explicitly.
func (a *Arena) AllocBytes(n int) ([]byte, error) {
	if n < 0 {
		n = 0
	}
	aligned := alignUp(n)
	if err := a.reserve(aligned); err != nil {
		return nil, err
	}
	if a.current.remaining() < aligned {
		size := a.blockSize
		if aligned > size {
			size = aligned
		}
		size *= 2 // geometric growth
		a.current = a.newBlock(size)
		a.blocks = append(a.blocks, a.current)
	}
	start := a.current.used
	a.current.used += aligned
	a.totalUsed += int64(aligned)
	return a.current.buf[start : start+n : start+n], nil
}

// AllocZeroedBytes is AllocBytes with an explicit zero-fill guarantee.
func (a *Arena) AllocZeroedBytes(n int) ([]byte, error) {
	b, err := a.AllocBytes(n)
	if err != nil {
		return nil, err
	}
	for i := range b {
		b[i] = 0
	}
	return b, nil
}

// reserve checks a prospective n-byte allocation against MaxBytes without
// committing it.
func (a *Arena) reserve(n int) error {
	if a.MaxBytes > 0 && a.totalUsed+int64(n) > a.MaxBytes {
		return langerrs.ErrArenaOOM
	}
	return nil
}

// accountHeap records n bytes of heap-backed allocation (AllocValue,
// AllocSlice) against the Arena's byte budget.
func (a *Arena) accountHeap(n int) error {
	if err := a.reserve(n); err != nil {
		return err
	}
	a.totalUsed += int64(n)
	return nil
}

// AllocValue allocates a zero-valued T, counted against the Arena's budget.
// The returned pointer is stable for the lifetime of the Arena.
func AllocValue[T any](a *Arena) (*T, error) {
	var zero T
	if err := a.accountHeap(int(unsafe.Sizeof(zero))); err != nil {
		return nil, err
	}
	return new(T), nil
}

// AllocSlice allocates a zero-valued []T of length n, counted against the
// Arena's budget.
func AllocSlice[T any](a *Arena, n int) ([]T, error) {
	if n < 0 {
		n = 0
	}
	var zero T
	if err := a.accountHeap(int(unsafe.Sizeof(zero)) * n); err != nil {
		return nil, err
	}
	return make([]T, n), nil
}

// TotalBytesUsed returns the number of bytes handed out so far, across both
// the byte-block allocator and accounted heap allocations.
func (a *Arena) TotalBytesUsed() int64 {
	return a.totalUsed
}

// Reset drops every block but the first and rewinds it to empty, and zeroes
// the heap-allocation accounting. Values already handed out via AllocValue
// or AllocSlice remain valid (they are ordinary Go heap values) but the
// Arena's bookkeeping no longer reflects them; callers that Reset must not
// keep using previously-returned AllocBytes/AllocZeroedBytes slices, since
// that memory is about to be overwritten.
func (a *Arena) Reset() {
	first := a.blocks[0]
	first.used = 0
	a.blocks = a.blocks[:1]
	a.current = first
	a.totalUsed = 0
}
