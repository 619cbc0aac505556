// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package collections implements the generic hash map and dynamic sequence
// used by the higher layers (the interner, the type store, the diagnostic
// list). The hash map uses separate chaining with a bounded load factor and
// geometric rehashing; the sequence is a growable slice with an optional
// arena backing, in which case growth reallocates from the arena and the
// previous backing array is left for the arena to reclaim at teardown.
package collections
