package queue_test

import (
	"testing"

	"searchtube/internal/queue"
)

func TestJobStateDerivation(t *testing.T) {
	cases := []struct {
		name     string
		job      queue.Job
		expected queue.State
	}{
		{"new", queue.Job{ID: "a"}, queue.StatePendingMetadata},
		{"metadata recorded", queue.Job{ID: "a", MetadataSet: true}, queue.StatePendingDownload},
		{"downloaded", queue.Job{ID: "a", MetadataSet: true, Downloaded: true}, queue.StatePendingTranscription},
		{"transcribed", queue.Job{ID: "a", MetadataSet: true, Downloaded: true, Transcribed: true}, queue.StateDone},
		{"rejected", queue.Job{ID: "a", MetadataSet: true, Rejected: true}, queue.StateRejected},
		{"rejection wins", queue.Job{ID: "a", MetadataSet: true, Downloaded: true, Transcribed: true, Rejected: true}, queue.StateRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.job.State(); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestTerminal(t *testing.T) {
	done := queue.Job{MetadataSet: true, Downloaded: true, Transcribed: true}
	if !done.Terminal() {
		t.Fatal("expected done job terminal")
	}
	rejected := queue.Job{MetadataSet: true, Rejected: true}
	if !rejected.Terminal() {
		t.Fatal("expected rejected job terminal")
	}
	pending := queue.Job{MetadataSet: true}
	if pending.Terminal() {
		t.Fatal("expected pending job not terminal")
	}
}

func TestParseState(t *testing.T) {
	if state, ok := queue.ParseState("  Pending_Download "); !ok || state != queue.StatePendingDownload {
		t.Fatalf("unexpected parse result: %s, %v", state, ok)
	}
	if _, ok := queue.ParseState("bogus"); ok {
		t.Fatal("expected unknown state to fail parsing")
	}
	if _, ok := queue.ParseState(""); ok {
		t.Fatal("expected empty state to fail parsing")
	}
}
