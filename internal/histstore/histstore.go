// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package histstore

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrForeignKeysDisabled = Error("foreign keys disabled")
	ErrCreateSchema        = Error("create schema")
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS compile_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	ts          TEXT NOT NULL,
	filename    TEXT NOT NULL,
	arena_bytes INTEGER NOT NULL,
	diag_count  INTEGER NOT NULL
);
`

// Store appends compile-result rows to a SQLite file.
type Store struct {
	path string
	db   *sql.DB
}

// Open opens (creating if necessary) the history database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Printf("histstore: open: %v\n", err)
		return nil, err
	}

	if rslt, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		log.Printf("histstore: open: foreign keys are disabled\n")
		return nil, ErrForeignKeysDisabled
	} else if rslt == nil {
		_ = db.Close()
		return nil, ErrForeignKeysDisabled
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		_ = db.Close()
		log.Printf("histstore: open: failed to initialize schema: %v\n", err)
		return nil, ErrCreateSchema
	}

	return &Store{path: path, db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record is one CLI invocation's worth of compile metadata.
type Record struct {
	SessionID   string
	Filename    string
	ArenaBytes  int64
	Diagnostics int
}

// Append inserts one row recording a finished compile.
func (s *Store) Append(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO compile_history (session_id, ts, filename, arena_bytes, diag_count) VALUES (?, ?, ?, ?, ?)`,
		r.SessionID, time.Now().UTC().Format(time.RFC3339), r.Filename, r.ArenaBytes, r.Diagnostics,
	)
	if err != nil {
		log.Printf("histstore: append: %v\n", err)
	}
	return err
}
