package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"searchtube/internal/config"
	"searchtube/internal/deps"
	"searchtube/internal/queue"
)

// minFreeBytes is the floor below which the download volume is considered
// too full to accept new media.
const minFreeBytes = 512 * 1024 * 1024

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem backing path has headroom for
// new downloads.
func CheckFreeSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/(1024*1024*1024))
	if free < minFreeBytes {
		return Result{Name: name, Detail: detail + " (below minimum)"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckQueueDatabase verifies that the job database is present and responsive.
func CheckQueueDatabase(ctx context.Context, store *queue.Store) Result {
	const name = "Job database"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := store.CheckHealth(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !health.DatabaseExists {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", health.DBPath)}
	}
	if !health.DatabaseReadable {
		detail := health.Error
		if detail == "" {
			detail = "database unreadable"
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", health.DBPath, detail)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d jobs)", health.DBPath, health.TotalJobs)}
}

// CheckSystemDeps evaluates the external tools searchtube shells out to.
// Both the daemon and the CLI status command use this to avoid duplicating
// the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Downloader",
			Command:     cfg.Downloader.Binary,
			Description: "Required for fetching media streams",
		},
		{
			Name:        "Transcriber",
			Command:     cfg.Transcriber.Binary,
			Description: "Required for speech-to-text transcription",
		},
	}
	return deps.CheckBinaries(requirements)
}
