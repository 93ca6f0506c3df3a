// Package sqlite provides a SQLite-based implementation of driven.DocumentStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files;
// applied versions are recorded in schema_migrations.
//
// Documents live in the documents table. Chunks are keyed by (document_id,
// chunk_id) and store their vector as a little-endian float32 blob.
//
// # Search
//
// SearchChunks is a brute-force cosine similarity scan over every stored
// vector. It suits the corpus sizes a local CLI handles.
//
// # Data Location
//
// By default, the database is stored at ~/.ragkit/data/ragkit.db
package sqlite
