// Package store implements the survey data services on top of the
// relational schema: survey authoring, response collection and the
// per-session participation query. Every exported mutating method runs as a
// single transaction, and every cascade is an explicit statement sequence
// rather than schema-level magic.
package store

import "database/sql"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}
