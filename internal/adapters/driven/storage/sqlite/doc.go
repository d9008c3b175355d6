// Package sqlite provides a SQLite-backed driven.PersistenceStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Project metadata lives in the projects table, keeping list order in
// a position column. Each project's content is kept as one JSON document in
// project_contents, using the same wire format as the JSON file store.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.gplan/data/projects.db
//
// # Thread Safety
//
// SaveAll replaces everything inside one transaction. SQLite runs in WAL mode.
package sqlite
