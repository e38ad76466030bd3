package sqlite

import "database/sql"

// Store implements the database port over SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store using the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
