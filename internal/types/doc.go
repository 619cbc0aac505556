// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package types implements the type store: an interner specialized to
// semantic Type values. Equal types have equal pointers; every
// non-primitive type's child components point to an already-interned
// type, so structural comparison reduces to pointer comparison of
// children. A structural hash is cached on each type at interning time.
package types
