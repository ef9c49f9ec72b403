// Package core provides the business logic for the mail merge review flow.
//
// The package is independent of any UI or transport layer. The web server,
// the CLI and the terminal review screen all drive it the same way.
//
// # Pipeline
//
// An upload flows through four stages:
//
//  1. [DecodeTable] turns CSV, TSV or XLSX bytes into a [Table] of header-keyed rows
//  2. [DetectEmailColumn] picks the column holding addresses (or none)
//  3. [Extract] validates, normalizes and deduplicates, filling [Stats]
//  4. [Service.Upload] wraps the [Result] in a review [Session]
//
// When no column qualifies, Extract scans every cell instead. That fallback
// only ever reports addresses it found; it does not count the invalid or
// repeated cells elsewhere in the table.
//
// # Persisted State
//
// The saved [Template] and the set of sent addresses are kept in a [Store],
// a plain string key-value interface. [MemoryStore] serves tests; the store
// package provides SQLite and PostgreSQL implementations.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Only decode failures and [ErrEmptyFile] reject an upload; every other kind
// of malformed input shows up in the statistics instead.
package core
