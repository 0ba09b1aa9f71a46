package queue_test

import (
	"context"
	"errors"
	"testing"

	"searchtube/internal/queue"
	"searchtube/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	inserted, err := store.InsertNew(ctx, []string{"vid-001"})
	if err != nil {
		t.Fatalf("InsertNew failed: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("expected 1 inserted, got %d", inserted)
	}

	job, err := store.GetByID(ctx, "vid-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job == nil || job.ID != "vid-001" {
		t.Fatalf("unexpected fetched job: %#v", job)
	}
	if job.State() != queue.StatePendingMetadata {
		t.Fatalf("expected new job pending metadata, got %s", job.State())
	}
}

func TestInsertNewIgnoresDuplicates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	inserted, err := store.InsertNew(ctx, []string{"dup-1", "dup-2", "dup-1"})
	if err != nil {
		t.Fatalf("InsertNew failed: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", inserted)
	}

	inserted, err = store.InsertNew(ctx, []string{"dup-1", "dup-2"})
	if err != nil {
		t.Fatalf("repeat InsertNew failed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected 0 inserted on repeat, got %d", inserted)
	}
}

func TestInsertNewLeavesTerminalJobsAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-done")
	if err := store.RecordMetadata(ctx, "vid-done", "Title", []string{"k"}); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	if err := store.RecordDownloaded(ctx, "vid-done", "/tmp/vid-done.mp4"); err != nil {
		t.Fatalf("RecordDownloaded failed: %v", err)
	}
	if err := store.RecordTranscribed(ctx, "vid-done", "/tmp/vid-done.txt"); err != nil {
		t.Fatalf("RecordTranscribed failed: %v", err)
	}

	inserted, err := store.InsertNew(ctx, []string{"vid-done"})
	if err != nil {
		t.Fatalf("InsertNew failed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected re-submission of finished job to be ignored, got %d inserted", inserted)
	}

	job, err := store.GetByID(ctx, "vid-done")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job.State() != queue.StateDone {
		t.Fatalf("expected job to stay done, got %s", job.State())
	}
}

func TestSelectorsFollowStageOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-a")

	job, err := store.NextForMetadata(ctx)
	if err != nil {
		t.Fatalf("NextForMetadata failed: %v", err)
	}
	if job == nil || job.ID != "vid-a" {
		t.Fatalf("expected vid-a for metadata, got %#v", job)
	}
	if next, err := store.NextForDownload(ctx); err != nil || next != nil {
		t.Fatalf("expected no download candidate, got %#v (err %v)", next, err)
	}

	if err := store.RecordMetadata(ctx, "vid-a", "Title", []string{"go"}); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	if next, err := store.NextForMetadata(ctx); err != nil || next != nil {
		t.Fatalf("expected no metadata candidate after record, got %#v (err %v)", next, err)
	}
	job, err = store.NextForDownload(ctx)
	if err != nil {
		t.Fatalf("NextForDownload failed: %v", err)
	}
	if job == nil || job.ID != "vid-a" {
		t.Fatalf("expected vid-a for download, got %#v", job)
	}

	if err := store.RecordDownloaded(ctx, "vid-a", "/tmp/vid-a.webm"); err != nil {
		t.Fatalf("RecordDownloaded failed: %v", err)
	}
	job, err = store.NextForTranscription(ctx)
	if err != nil {
		t.Fatalf("NextForTranscription failed: %v", err)
	}
	if job == nil || job.ID != "vid-a" {
		t.Fatalf("expected vid-a for transcription, got %#v", job)
	}

	if err := store.RecordTranscribed(ctx, "vid-a", "/tmp/vid-a.txt"); err != nil {
		t.Fatalf("RecordTranscribed failed: %v", err)
	}
	if next, err := store.NextForTranscription(ctx); err != nil || next != nil {
		t.Fatalf("expected empty transcription queue, got %#v (err %v)", next, err)
	}
}

func TestRejectedJobsSkipDownload(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-b")
	if err := store.RecordMetadata(ctx, "vid-b", "Banned Topic", []string{"banned"}); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	if err := store.RecordRejected(ctx, "vid-b", "keyword match: banned"); err != nil {
		t.Fatalf("RecordRejected failed: %v", err)
	}

	if next, err := store.NextForDownload(ctx); err != nil || next != nil {
		t.Fatalf("expected rejected job excluded from download, got %#v (err %v)", next, err)
	}

	job, err := store.GetByID(ctx, "vid-b")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job.State() != queue.StateRejected {
		t.Fatalf("expected rejected state, got %s", job.State())
	}
	if job.RejectReason != "keyword match: banned" {
		t.Fatalf("unexpected reject reason %q", job.RejectReason)
	}
	if !job.Terminal() {
		t.Fatal("expected rejected job to be terminal")
	}
}

func TestGuardedTransitionsEnforceOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-c")

	if err := store.RecordDownloaded(ctx, "vid-c", "/tmp/x"); !errors.Is(err, queue.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition before metadata, got %v", err)
	}
	if err := store.RecordTranscribed(ctx, "vid-c", "/tmp/x.txt"); !errors.Is(err, queue.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition before download, got %v", err)
	}

	if err := store.RecordMetadata(ctx, "vid-c", "T", nil); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	if err := store.RecordMetadata(ctx, "vid-c", "T2", nil); !errors.Is(err, queue.ErrInvalidTransition) {
		t.Fatalf("expected repeat metadata record rejected, got %v", err)
	}

	if err := store.RecordDownloaded(ctx, "vid-c", "/tmp/vid-c.mkv"); err != nil {
		t.Fatalf("RecordDownloaded failed: %v", err)
	}
	if err := store.RecordRejected(ctx, "vid-c", "late"); !errors.Is(err, queue.ErrInvalidTransition) {
		t.Fatalf("expected rejection after download to fail, got %v", err)
	}
}

func TestTransitionsOnUnknownJobReturnNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	if err := store.RecordMetadata(ctx, "missing", "T", nil); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected not found for metadata, got %v", err)
	}
	if err := store.RecordFailure(ctx, "missing", "boom"); !errors.Is(err, queue.ErrNotFound) {
		t.Fatalf("expected not found for failure, got %v", err)
	}
}

func TestRecordMetadataPersistsEmptyTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-d")
	if err := store.RecordMetadata(ctx, "vid-d", "", nil); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}

	job, err := store.GetByID(ctx, "vid-d")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !job.HasMetadata() {
		t.Fatal("expected metadata marker set even for empty title")
	}
	if job.Title != "" {
		t.Fatalf("expected empty title, got %q", job.Title)
	}
	if len(job.Keywords) != 0 {
		t.Fatalf("expected no keywords, got %v", job.Keywords)
	}
	if job.State() != queue.StatePendingDownload {
		t.Fatalf("expected pending download, got %s", job.State())
	}
}

func TestRecordFailureAccumulatesAttempts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-e")
	if err := store.RecordFailure(ctx, "vid-e", "fetch timeout"); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if err := store.RecordFailure(ctx, "vid-e", "fetch refused"); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}

	job, err := store.GetByID(ctx, "vid-e")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if job.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", job.Attempts)
	}
	if job.LastError != "fetch refused" {
		t.Fatalf("unexpected last error %q", job.LastError)
	}
	if job.State() != queue.StatePendingMetadata {
		t.Fatalf("failure must not advance state, got %s", job.State())
	}
}

func TestListFiltersByState(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-f")
	testsupport.InsertJob(t, store, "vid-g")
	if err := store.RecordMetadata(ctx, "vid-g", "G", []string{"x"}); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(all))
	}

	pending, err := store.List(ctx, queue.StatePendingDownload)
	if err != nil {
		t.Fatalf("List filtered failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "vid-g" {
		t.Fatalf("unexpected filtered jobs: %#v", pending)
	}
}

func TestStatsAndHealthCountStates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-h")
	testsupport.InsertJob(t, store, "vid-i")
	if err := store.RecordMetadata(ctx, "vid-i", "I", nil); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	if err := store.RecordRejected(ctx, "vid-i", "denied"); err != nil {
		t.Fatalf("RecordRejected failed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[queue.StatePendingMetadata] != 1 || stats[queue.StateRejected] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 2 || health.PendingMetadata != 1 || health.Rejected != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestClearTerminalRemovesFinishedJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-j")
	testsupport.InsertJob(t, store, "vid-k")
	if err := store.RecordMetadata(ctx, "vid-k", "K", nil); err != nil {
		t.Fatalf("RecordMetadata failed: %v", err)
	}
	if err := store.RecordRejected(ctx, "vid-k", "denied"); err != nil {
		t.Fatalf("RecordRejected failed: %v", err)
	}

	removed, err := store.ClearTerminal(ctx)
	if err != nil {
		t.Fatalf("ClearTerminal failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "vid-j" {
		t.Fatalf("unexpected remaining jobs: %#v", remaining)
	}
}

func TestCheckHealthReportsIntegrity(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.InsertJob(t, store, "vid-l")

	health, err := store.CheckHealth(ctx)
	if err != nil {
		t.Fatalf("CheckHealth failed: %v", err)
	}
	if !health.DatabaseExists || !health.DatabaseReadable || !health.TableExists || !health.IntegrityCheck {
		t.Fatalf("unexpected health report: %#v", health)
	}
	if health.TotalJobs != 1 {
		t.Fatalf("expected 1 job counted, got %d", health.TotalJobs)
	}
}
