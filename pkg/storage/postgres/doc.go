// Package postgres is the PostgreSQL implementation of storage.Store.
//
// Schema changes live in migrations.go and are applied by New at startup.
// The SQL sticks to the portable subset both PostgreSQL and SQLite accept,
// so the unit tests run against an in-memory SQLite database while the
// integration tests (build tag "integration") run the same store against a
// real PostgreSQL container.
//
// Organization unit descendant lookups use the raw code prefix match
// `code LIKE $2 || '%'`, mirroring the in-memory store's predicate.
package postgres
