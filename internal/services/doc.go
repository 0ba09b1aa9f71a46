// Package services holds shared plumbing for external collaborator clients:
// sentinel errors for failure classification and context annotations that
// carry job, stage, and correlation identifiers into logs.
//
// Collaborator implementations live in subpackages (ytmeta, ytdlp, whisper);
// stage workers consume them through narrow interfaces so tests can
// substitute fakes.
package services
