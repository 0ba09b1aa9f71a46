// Package daemon hosts the long-running pipeline process: it acquires a
// single-instance file lock, runs the workflow manager, and serves the HTTP
// ingestion and status API. The API is the only externally reachable write
// surface into the pipeline.
package daemon
