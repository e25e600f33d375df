// Package storage provides SQLite-based persistence for the tracking-event
// log and the analysis-report archive.
//
// The event log is append-only and time-ordered: the detection layer (or the
// ingest command) appends events, and the analysis engines read bounded
// slices of recent history. Callers must not assume any ordering beyond
// filtering by timestamp. Storage reads are fallible and surface errors to
// the caller; retry and backoff are the caller's concern, never this
// package's.
package storage
