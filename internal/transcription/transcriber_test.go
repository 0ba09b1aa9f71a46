package transcription_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"searchtube/internal/logging"
	"searchtube/internal/queue"
	"searchtube/internal/services"
	"searchtube/internal/testsupport"
	"searchtube/internal/transcription"
)

type fakeTool struct {
	text   string
	err    error
	source string
}

func (f *fakeTool) Transcribe(ctx context.Context, sourcePath string) (string, error) {
	f.source = sourcePath
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeTool) Binary() string { return "whisper" }

func TestExecuteWritesTranscriptAndRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job := testsupport.InsertJob(t, store, "abc123")
	ctx := context.Background()
	if err := store.RecordMetadata(ctx, "abc123", "Title", nil); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	artifact := filepath.Join(cfg.Paths.DownloadDir, "abc123.webm")
	testsupport.WriteFile(t, artifact, 128)
	if err := store.RecordDownloaded(ctx, "abc123", artifact); err != nil {
		t.Fatalf("RecordDownloaded failed: %v", err)
	}
	job.ArtifactPath = artifact
	job.Downloaded = true

	tool := &fakeTool{text: "hello from the video\n"}
	tr := transcription.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), tool)

	if err := tr.Execute(ctx, job); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if tool.source != artifact {
		t.Fatalf("expected tool invoked with %s, got %s", artifact, tool.source)
	}

	transcript := queue.TranscriptPath(cfg.Paths.TranscriptDir, "abc123")
	data, err := os.ReadFile(transcript)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(data) != "hello from the video\n" {
		t.Fatalf("unexpected transcript contents %q", data)
	}

	stored, err := store.GetByID(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.State() != queue.StateDone {
		t.Fatalf("expected done, got %s", stored.State())
	}
	if stored.TranscriptPath != transcript {
		t.Fatalf("unexpected transcript path %q", stored.TranscriptPath)
	}
}

func TestExecuteLocatesArtifactByConvention(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job := testsupport.InsertJob(t, store, "abc123")
	ctx := context.Background()
	if err := store.RecordMetadata(ctx, "abc123", "Title", nil); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	artifact := filepath.Join(cfg.Paths.DownloadDir, "abc123.mkv")
	testsupport.WriteFile(t, artifact, 128)
	if err := store.RecordDownloaded(ctx, "abc123", artifact); err != nil {
		t.Fatalf("RecordDownloaded failed: %v", err)
	}
	job.Downloaded = true
	job.ArtifactPath = ""

	tool := &fakeTool{text: "text"}
	tr := transcription.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), tool)

	if err := tr.Execute(ctx, job); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if tool.source != artifact {
		t.Fatalf("expected conventional artifact %s, got %s", artifact, tool.source)
	}
}

func TestExecuteLeavesStateOnToolFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	job := testsupport.InsertJob(t, store, "abc123")
	ctx := context.Background()
	if err := store.RecordMetadata(ctx, "abc123", "Title", nil); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	artifact := filepath.Join(cfg.Paths.DownloadDir, "abc123.webm")
	testsupport.WriteFile(t, artifact, 128)
	if err := store.RecordDownloaded(ctx, "abc123", artifact); err != nil {
		t.Fatalf("RecordDownloaded failed: %v", err)
	}
	job.ArtifactPath = artifact
	job.Downloaded = true

	tool := &fakeTool{err: services.Wrap(services.ErrTranscribe, "transcription", "run", "boom", nil)}
	tr := transcription.NewTranscriberWithDependencies(cfg, store, logging.NewNop(), tool)

	err := tr.Execute(ctx, job)
	if !errors.Is(err, services.ErrTranscribe) {
		t.Fatalf("expected transcribe error, got %v", err)
	}

	stored, getErr := store.GetByID(ctx, "abc123")
	if getErr != nil {
		t.Fatalf("GetByID failed: %v", getErr)
	}
	if stored.State() != queue.StatePendingTranscription {
		t.Fatalf("expected state unchanged for retry, got %s", stored.State())
	}
}
