// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package lexer implements a pointer-advance scanner producing a token
// sequence from source text. It owns three dense interners — keywords
// (pre-populated), identifiers, and string literals — shared with every
// later phase of the compile. Integer and float literal values are not
// decoded here; the parser converts digit runs to numeric values (spec.md
// §4.4).
package lexer
