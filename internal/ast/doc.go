// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package ast defines the tagged AST node types the parser builds and the
// semantic analyzer annotates in place. Every node carries a span; every
// expression node additionally carries a semantic type (nil until sema
// resolves it), an is-const-expr flag, and an inline constant value. There
// are no node back-references and no cycles: an AST is single-owned by
// its Program root and lives in the arena passed to every constructor.
package ast
