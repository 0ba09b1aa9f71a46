// Package workflow advances queue jobs through the configured processing
// stages.
//
// The Manager runs one long-lived polling worker per stage (metadata
// collection, download, transcription). Each worker repeatedly asks the
// store for the next eligible job, runs its handler, and sleeps for the
// poll interval both when idle and after completing one unit of work; the
// sleep paces calls against the external collaborators. Workers never call
// each other and contend only on the store, so a job becomes visible to a
// later stage exactly when the earlier stage's mutation commits.
//
// Handler failures are logged and recorded against the job without
// advancing its flags, so the same selector returns the job again on a
// later cycle. Shutdown is observed at idle points only; an execution in
// flight completes (or is cancelled by its own context) before the worker
// exits.
package workflow
