package ingest_test

import (
	"context"
	"errors"
	"testing"

	"searchtube/internal/ingest"
	"searchtube/internal/logging"
	"searchtube/internal/services"
	"searchtube/internal/testsupport"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url with offset", "https://example.com/watch?v=abc123&t=30s", "abc123"},
		{"shorts url", "https://www.youtube.com/shorts/abc123xyz", "abc123xyz"},
		{"live url", "https://www.youtube.com/live/abc123xyz", "abc123xyz"},
		{"embed url", "https://www.youtube.com/embed/abc123xyz", "abc123xyz"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link with offset", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"surrounding whitespace", "  dQw4w9WgXcQ\n", "dQw4w9WgXcQ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ingest.ExtractVideoID(tc.input)
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) failed: %v", tc.input, err)
			}
			if id != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, id)
			}
		})
	}
}

func TestExtractVideoIDRejectsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"no id", "https://www.youtube.com/watch"},
		{"channel path", "https://www.youtube.com/@somechannel/videos"},
		{"illegal characters", "abc!123"},
		{"too short", "ab"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ingest.ExtractVideoID(tc.input); !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error for %q, got %v", tc.input, err)
			}
		})
	}
}

func TestIngestDeduplicatesWithinBatchAndStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	gate := ingest.NewGate(store, logging.NewNop())

	ctx := context.Background()
	result, err := gate.Ingest(ctx, []string{
		"https://www.youtube.com/watch?v=abc123",
		"https://youtu.be/abc123",
		"https://www.youtube.com/watch?v=def456",
	})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Accepted != 2 || result.Duplicate != 0 {
		t.Fatalf("unexpected result: %#v", result)
	}

	result, err = gate.Ingest(ctx, []string{"abc123"})
	if err != nil {
		t.Fatalf("repeat Ingest failed: %v", err)
	}
	if result.Accepted != 0 || result.Duplicate != 1 {
		t.Fatalf("expected duplicate submission ignored, got %#v", result)
	}
}

func TestIngestDropsMalformedSilently(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	gate := ingest.NewGate(store, logging.NewNop())

	result, err := gate.Ingest(context.Background(), []string{"abc123", "not a url", "https://www.youtube.com/watch"})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Accepted != 1 || result.Malformed != 2 {
		t.Fatalf("unexpected result: %#v", result)
	}

	jobs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "abc123" {
		t.Fatalf("expected only valid submission enqueued, got %#v", jobs)
	}
}

func TestIngestAllMalformedReturnsEmptyResult(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	gate := ingest.NewGate(store, logging.NewNop())

	result, err := gate.Ingest(context.Background(), []string{"", "!!"})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if result.Accepted != 0 || result.Malformed != 2 {
		t.Fatalf("unexpected result: %#v", result)
	}
}
