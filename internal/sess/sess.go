// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package sess

import "github.com/google/uuid"

// ID is a per-compile session identifier, opaque outside this package.
type ID string

// New returns a fresh session id.
func New() ID {
	return ID(uuid.NewString())
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}
