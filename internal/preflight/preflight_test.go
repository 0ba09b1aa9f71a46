package preflight

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"searchtube/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := CheckDirectoryAccess("Download directory", dir)
	if !result.Passed {
		t.Fatalf("expected accessible directory to pass, got %#v", result)
	}

	missing := CheckDirectoryAccess("Download directory", filepath.Join(dir, "missing"))
	if missing.Passed {
		t.Fatalf("expected missing directory to fail, got %#v", missing)
	}
	if !strings.Contains(missing.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", missing.Detail)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	result := CheckFreeSpace("Download free space", t.TempDir())
	if result.Detail == "" {
		t.Fatal("expected detail with free-space figure")
	}

	missing := CheckFreeSpace("Download free space", filepath.Join(t.TempDir(), "missing"))
	if missing.Passed {
		t.Fatalf("expected statfs on missing path to fail, got %#v", missing)
	}
}

func TestCheckQueueDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	result := CheckQueueDatabase(context.Background(), store)
	if !result.Passed {
		t.Fatalf("expected healthy database to pass, got %#v", result)
	}
}

func TestRunAllCoversDirectoriesAndStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	results := RunAll(context.Background(), cfg, store)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, result := range results {
		if !result.Passed {
			t.Fatalf("expected all checks to pass in a fresh workspace, got %#v", result)
		}
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("expected stubbed binary to be available, got %#v", status)
		}
	}
}
