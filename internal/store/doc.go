// Package store persists completed transcription runs in SQLite.
//
// The Store manages the database connection, schema migrations, and queries
// over runs and their segments. Runs are append-mostly: the pipeline writes a
// run once when it finishes and the CLI reads runs back for listing, display,
// and export.
//
// Schema changes add a new file under migrations/; files apply in name order
// and are recorded in schema_migrations.
package store
