// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package sess tags each compile with a random session id so that multiple
// concurrent CLI runs appending to the same history database are
// distinguishable.
package sess
