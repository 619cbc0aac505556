// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package token defines the token kinds the lexer produces and the Token
// type itself: a kind, a span, the source lexeme, and — for identifiers,
// keywords, and string literals — the interned record backing it.
package token
