// Package queue persists pipeline jobs in SQLite and exposes stage-specific
// selectors and guarded transitions for driving their lifecycle.
//
// The Store manages the database connection, schema initialization, selector
// queries ("next job for stage X"), and the one-way flag transitions that
// encode a job's progress. Each mutating operation is a single conditional
// UPDATE so a flag can flip false to true exactly once; a failed guard
// surfaces as ErrInvalidTransition rather than a silent overwrite.
//
// The stored shape is three independent booleans (downloaded, transcribed,
// rejected) for compatibility with the original schema; business logic
// should switch on the derived State instead of raw flag combinations.
//
// Treat this package as the single source of truth for queue semantics; when
// you add columns, update schema.sql and bump schemaVersion.
package queue
