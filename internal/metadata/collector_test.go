package metadata_test

import (
	"context"
	"errors"
	"testing"

	"searchtube/internal/filter"
	"searchtube/internal/logging"
	"searchtube/internal/metadata"
	"searchtube/internal/queue"
	"searchtube/internal/services"
	"searchtube/internal/services/ytmeta"
	"searchtube/internal/testsupport"
)

type fakeFetcher struct {
	meta ytmeta.Metadata
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, id string) (ytmeta.Metadata, error) {
	return f.meta, f.err
}

func TestExecuteRecordsMetadataAndAccepts(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDenylist("spam"))
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.InsertJob(t, store, "abc123")

	fetcher := &fakeFetcher{meta: ytmeta.Metadata{Title: "Go Talk", Keywords: []string{"go", "talks"}}}
	collector := metadata.NewCollectorWithDependencies(cfg, store, logging.NewNop(), fetcher, filter.NewPolicy(cfg))

	if err := collector.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	stored, err := store.GetByID(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.State() != queue.StatePendingDownload {
		t.Fatalf("expected pending download, got %s", stored.State())
	}
	if stored.Title != "Go Talk" || len(stored.Keywords) != 2 {
		t.Fatalf("unexpected stored metadata: %#v", stored)
	}
}

func TestExecuteRejectsDenylistedKeywords(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDenylist("spam"))
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.InsertJob(t, store, "abc123")

	fetcher := &fakeFetcher{meta: ytmeta.Metadata{Title: "Junk", Keywords: []string{"spam"}}}
	collector := metadata.NewCollectorWithDependencies(cfg, store, logging.NewNop(), fetcher, filter.NewPolicy(cfg))

	if err := collector.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	stored, err := store.GetByID(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.State() != queue.StateRejected {
		t.Fatalf("expected rejected, got %s", stored.State())
	}
	if stored.RejectReason != "keyword match: spam" {
		t.Fatalf("unexpected reason %q", stored.RejectReason)
	}
	if !stored.HasMetadata() {
		t.Fatal("expected metadata recorded before rejection")
	}
}

func TestExecuteLeavesStateOnFetchFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	job := testsupport.InsertJob(t, store, "abc123")

	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	collector := metadata.NewCollectorWithDependencies(cfg, store, logging.NewNop(), fetcher, filter.NewPolicy(cfg))

	err := collector.Execute(context.Background(), job)
	if !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	stored, getErr := store.GetByID(context.Background(), "abc123")
	if getErr != nil {
		t.Fatalf("GetByID failed: %v", getErr)
	}
	if stored.State() != queue.StatePendingMetadata {
		t.Fatalf("expected state unchanged for retry, got %s", stored.State())
	}
}
