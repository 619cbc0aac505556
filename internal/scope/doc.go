// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package scope implements the symbol table sema checks names against: a
// chain of scopes, each holding a slot array indexed by a name's dense
// interner index, disambiguated by whether the name came from the
// identifier interner or the keyword interner so a user identifier can
// never shadow (or be shadowed by) a reserved type-name keyword.
package scope
