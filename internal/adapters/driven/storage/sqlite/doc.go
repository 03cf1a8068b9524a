// Package sqlite provides an SQLite-backed driven.IndexRepository.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Chunk metadata and embeddings live in two tables keyed by vector
// slot, and every Save runs in a single transaction, so the two are always
// committed together.
//
// # Schema
//
// The schema is managed through versioned migrations in migrations/.
// Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.webrecall/index.db
package sqlite
