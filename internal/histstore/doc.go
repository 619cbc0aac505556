// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package histstore appends one row per CLI invocation to a local SQLite
// file: timestamp, filename, arena bytes used, diagnostic count, session id.
// It is opt-in (the `-history` flag) and never touches the compiler core's
// arena or diagnostic list directly — it only records the results of a
// finished Compile call.
package histstore
