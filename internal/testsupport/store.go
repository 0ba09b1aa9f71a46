package testsupport

import (
	"context"
	"testing"

	"searchtube/internal/config"
	"searchtube/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// InsertJob enqueues a single video id for tests and returns the stored job.
func InsertJob(t testing.TB, store *queue.Store, id string) *queue.Job {
	t.Helper()

	inserted, err := store.InsertNew(context.Background(), []string{id})
	if err != nil {
		t.Fatalf("store.InsertNew: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("store.InsertNew inserted %d jobs, want 1", inserted)
	}
	job, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("store.GetByID: %v", err)
	}
	return job
}
