// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package fnv1a implements the 64-bit FNV-1a hash used as the default hash
// function for every byte-keyed interner and hash map in this module.
package fnv1a

const (
	offsetBasis uint64 = 14695981039346656037
	prime       uint64 = 1099511628211
)

// Hash computes the FNV-1a hash of b.
func Hash(b []byte) uint64 {
	h := offsetBasis
	for _, c := range b {
		h ^= uint64(c)
		h *= prime
	}
	return h
}
