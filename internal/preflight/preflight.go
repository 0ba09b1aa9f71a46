package preflight

import (
	"context"

	"searchtube/internal/config"
	"searchtube/internal/queue"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config. The store is
// optional; when nil the queue database check is skipped.
func RunAll(ctx context.Context, cfg *config.Config, store *queue.Store) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Download directory", cfg.Paths.DownloadDir),
		CheckDirectoryAccess("Transcript directory", cfg.Paths.TranscriptDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckFreeSpace("Download free space", cfg.Paths.DownloadDir),
	}

	if store != nil {
		results = append(results, CheckQueueDatabase(ctx, store))
	}

	return results
}
