// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package diag implements the diagnostic model: a closed set of tagged
// kinds, each carrying a span, the filename, and a kind-specific payload,
// accumulated in an ordered List. The core never formats a diagnostic for
// display — that is left to the embedding host (spec.md §1, §7).
package diag
